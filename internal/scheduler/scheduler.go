// Package scheduler owns the refresh cycle: fetch the catalog, cache it,
// rebuild the analytics report and publish the result. The engine itself
// stays synchronous and pure; everything periodic or stateful lives here.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BeatNow2-0/beatpulse/internal/store"
	"github.com/BeatNow2-0/beatpulse/pkg/alert"
	"github.com/BeatNow2-0/beatpulse/pkg/catalog"
	"github.com/BeatNow2-0/beatpulse/pkg/stats"
)

// Holder keeps the most recently computed report. Refreshes may overlap;
// whichever finishes last wins, which is all the dashboard needs.
type Holder struct {
	mu     sync.RWMutex
	report *stats.Report
}

// Set replaces the current report.
func (h *Holder) Set(r stats.Report) {
	h.mu.Lock()
	h.report = &r
	h.mu.Unlock()
}

// Get returns the current report, or nil before the first refresh.
func (h *Holder) Get() *stats.Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.report
}

// Refresher runs one full refresh: fetch, cache, recompute.
type Refresher struct {
	store    store.Store
	sources  []catalog.Source
	filter   *catalog.Filter
	engine   *stats.Engine
	username string
}

// NewRefresher creates a refresher for one producer.
func NewRefresher(s store.Store, sources []catalog.Source, filter *catalog.Filter, engine *stats.Engine, username string) *Refresher {
	return &Refresher{
		store:    s,
		sources:  sources,
		filter:   filter,
		engine:   engine,
		username: username,
	}
}

// Refresh fetches the catalog and rebuilds the report. When every source
// fails it falls back to the local cache, so a flaky backend degrades to
// stale numbers instead of an empty dashboard. The cache is only replaced
// after a successful fetch.
func (r *Refresher) Refresh(ctx context.Context) (stats.Report, error) {
	now := time.Now().UTC()

	var raw []catalog.RawPost
	fetched := false
	for _, src := range r.sources {
		posts, err := src.Fetch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}
		raw = append(raw, posts...)
		fetched = true
		_ = r.store.RecordFetch(ctx, r.username, src.Name(), len(posts))
	}

	if !fetched {
		cached, err := r.store.ListPosts(ctx, r.username)
		if err != nil {
			return stats.Report{}, fmt.Errorf("all sources failed and cache unavailable: %w", err)
		}
		for _, p := range cached {
			raw = append(raw, p.ToRaw())
		}
		fmt.Fprintf(os.Stderr, "  serving %d cached posts\n", len(raw))
	}

	raw = r.filter.Apply(raw)
	report := r.engine.BuildReport(raw, now)

	if fetched {
		items := r.engine.Normalize(raw, now)
		posts := make([]store.Post, len(items))
		for i, m := range items {
			posts[i] = store.FromMetrics(r.username, i, m, now)
		}
		if err := r.store.ReplacePosts(ctx, r.username, posts); err != nil {
			fmt.Fprintf(os.Stderr, "  cache error: %v\n", err)
		}
	}

	return report, nil
}

// Scheduler periodically refreshes the report and raises trending alerts.
type Scheduler struct {
	refresher *Refresher
	holder    *Holder
	alertMgr  *alert.Manager
	interval  time.Duration

	// trending tracks which posts were already flagged so each post is
	// announced once per crossing, not once per tick.
	trending map[string]bool
}

// New creates a new scheduler.
func New(refresher *Refresher, holder *Holder, alertMgr *alert.Manager, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		refresher: refresher,
		holder:    holder,
		alertMgr:  alertMgr,
		interval:  interval,
		trending:  make(map[string]bool),
	}
}

// Run starts the refresh loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	fmt.Fprintln(os.Stderr, "scheduler: initial refresh...")
	s.refreshOnce(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (refresh every %s)\n", s.interval)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: refreshing...")
			s.refreshOnce(ctx)
		}
	}
}

func (s *Scheduler) refreshOnce(ctx context.Context) {
	report, err := s.refresher.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  refresh error: %v\n", err)
		return
	}
	s.holder.Set(report)
	fmt.Fprintf(os.Stderr, "  %d posts, threshold %.1f\n", report.Totals.TotalPosts, report.Threshold)

	s.alertNewlyTrending(ctx, report)
}

func (s *Scheduler) alertNewlyTrending(ctx context.Context, report stats.Report) {
	if s.alertMgr == nil || !s.alertMgr.HasNotifiers() {
		return
	}

	current := make(map[string]bool, len(report.Items))
	for _, item := range report.Items {
		if !item.IsTrending {
			continue
		}
		current[item.ID] = true
		if s.trending[item.ID] {
			continue
		}

		n := &alert.Notification{
			Producer:  s.refresher.username,
			PostID:    item.ID,
			Title:     item.Title,
			Score:     item.TrendingScore,
			Threshold: report.Threshold,
			Plays7d:   item.Plays7d,
			Likes:     item.Likes,
			Saves:     item.Saves,
		}
		if err := s.alertMgr.Broadcast(ctx, n); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for %q: %v\n", item.Title, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  alerted: %s (score: %.1f)\n", item.Title, item.TrendingScore)
	}
	s.trending = current
}
