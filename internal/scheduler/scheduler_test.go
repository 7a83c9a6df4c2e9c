package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BeatNow2-0/beatpulse/internal/store"
	"github.com/BeatNow2-0/beatpulse/pkg/alert"
	"github.com/BeatNow2-0/beatpulse/pkg/catalog"
	"github.com/BeatNow2-0/beatpulse/pkg/stats"
)

type fakeStore struct {
	mu      sync.Mutex
	posts   map[string][]store.Post
	fetches []store.Fetch
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: make(map[string][]store.Post)}
}

func (f *fakeStore) ReplacePosts(_ context.Context, username string, posts []store.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[username] = posts
	return nil
}

func (f *fakeStore) ListPosts(_ context.Context, username string) ([]store.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[username], nil
}

func (f *fakeStore) RecordFetch(_ context.Context, username, source string, postCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, store.Fetch{Username: username, Source: source, PostCount: postCount})
	return nil
}

func (f *fakeStore) LastFetch(context.Context, string) (*store.Fetch, error) { return nil, nil }
func (f *fakeStore) Close() error                                           { return nil }

type fakeSource struct {
	posts []catalog.RawPost
	err   error
}

func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) Fetch(context.Context) ([]catalog.RawPost, error) {
	return f.posts, f.err
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []alert.Notification
}

func (r *recordingNotifier) Name() string { return "recording" }
func (r *recordingNotifier) Send(_ context.Context, n *alert.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, *n)
	return nil
}

func trendingFixture() []catalog.RawPost {
	now := time.Now().UTC()
	return []catalog.RawPost{
		{"_id": "hit", "title": "hit", "publication_date": now.Format(time.RFC3339), "plays_7d": float64(500)},
		{"_id": "b", "title": "b", "publication_date": now.Format(time.RFC3339), "plays_7d": float64(10)},
		{"_id": "c", "title": "c", "publication_date": now.Format(time.RFC3339), "plays_7d": float64(5)},
	}
}

func testRefresher(s store.Store, src catalog.Source) *Refresher {
	engine := stats.NewEngine(stats.DefaultWeights(), stats.DefaultWindowDays)
	return NewRefresher(s, []catalog.Source{src}, nil, engine, "kasi")
}

func TestRefresher_FetchesAndCaches(t *testing.T) {
	fs := newFakeStore()
	r := testRefresher(fs, &fakeSource{posts: trendingFixture()})

	report, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Totals.TotalPosts != 3 {
		t.Errorf("want 3 posts in report, got %d", report.Totals.TotalPosts)
	}
	if len(fs.posts["kasi"]) != 3 {
		t.Errorf("successful fetch must refill the cache, got %d rows", len(fs.posts["kasi"]))
	}
	if len(fs.fetches) != 1 || fs.fetches[0].PostCount != 3 {
		t.Errorf("fetch must be recorded: %+v", fs.fetches)
	}
}

func TestRefresher_FallsBackToCache(t *testing.T) {
	fs := newFakeStore()

	// Fill the cache with a working source, then fail every fetch.
	if _, err := testRefresher(fs, &fakeSource{posts: trendingFixture()}).Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	r := testRefresher(fs, &fakeSource{err: errors.New("backend down")})
	report, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("cache fallback must not error: %v", err)
	}
	if report.Totals.TotalPosts != 3 {
		t.Errorf("stale cache must still produce a report, got %d posts", report.Totals.TotalPosts)
	}
}

func TestHolder_LatestWins(t *testing.T) {
	h := &Holder{}
	if h.Get() != nil {
		t.Fatal("holder must start empty")
	}

	h.Set(stats.Report{Threshold: 1})
	h.Set(stats.Report{Threshold: 2})

	if got := h.Get(); got == nil || got.Threshold != 2 {
		t.Errorf("last set report must win, got %+v", got)
	}
}

func TestScheduler_AlertsOncePerCrossing(t *testing.T) {
	fs := newFakeStore()
	r := testRefresher(fs, &fakeSource{posts: trendingFixture()})
	notifier := &recordingNotifier{}

	s := New(r, &Holder{}, alert.NewManager([]alert.Notifier{notifier}), time.Minute)

	s.refreshOnce(context.Background())
	s.refreshOnce(context.Background())

	if len(notifier.sent) != 1 {
		t.Fatalf("a post must be announced once per crossing, got %d alerts", len(notifier.sent))
	}
	if notifier.sent[0].PostID != "hit" || notifier.sent[0].Producer != "kasi" {
		t.Errorf("unexpected notification: %+v", notifier.sent[0])
	}
}

func TestScheduler_NoAlertsWithoutNotifiers(t *testing.T) {
	fs := newFakeStore()
	r := testRefresher(fs, &fakeSource{posts: trendingFixture()})
	h := &Holder{}

	s := New(r, h, alert.NewManager(nil), time.Minute)
	s.refreshOnce(context.Background())

	if h.Get() == nil {
		t.Error("refresh must publish the report even with no notifiers")
	}
}
