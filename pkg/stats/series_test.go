package stats

import (
	"errors"
	"testing"
	"time"
)

func TestActivitySeries_EmptyCollection(t *testing.T) {
	series, err := testEngine().ActivitySeries(nil, testNow, DefaultWindowDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != DefaultWindowDays {
		t.Fatalf("want %d buckets, got %d", DefaultWindowDays, len(series))
	}
	for i, v := range series {
		if v != 0 {
			t.Errorf("bucket %d: want 0 for empty input, got %d", i, v)
		}
	}
}

func TestActivitySeries_InvalidWindow(t *testing.T) {
	for _, days := range []int{0, -1, -14} {
		if _, err := testEngine().ActivitySeries(nil, testNow, days); !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("days=%d: want ErrInvalidWindow, got %v", days, err)
		}
	}
}

func TestActivitySeries_WeeklySmear(t *testing.T) {
	items := []Metrics{{Plays7d: 7, PublicationDate: farPast}}

	series, err := testEngine().ActivitySeries(items, testNow, 14)
	if err != nil {
		t.Fatal(err)
	}

	// 7 weekly plays spread over the last 7 buckets: 1 each, older
	// buckets untouched.
	for i := 0; i < 7; i++ {
		if series[i] != 0 {
			t.Errorf("bucket %d: want 0, got %d", i, series[i])
		}
	}
	for i := 7; i < 14; i++ {
		if series[i] != 1 {
			t.Errorf("bucket %d: want 1, got %d", i, series[i])
		}
	}
}

func TestActivitySeries_PublicationSpike(t *testing.T) {
	items := []Metrics{{
		Plays:           100,
		PublicationDate: testNow.Add(-3 * 24 * time.Hour),
	}}

	series, err := testEngine().ActivitySeries(items, testNow, 14)
	if err != nil {
		t.Fatal(err)
	}

	// A quarter of lifetime plays lands on the publication day bucket.
	if series[10] != 25 {
		t.Errorf("publication bucket: want 25, got %d (series %v)", series[10], series)
	}
	if series[13] != 0 {
		t.Errorf("today bucket: want 0, got %d", series[13])
	}
}

func TestActivitySeries_SpikeOutsideWindowIgnored(t *testing.T) {
	items := []Metrics{{
		Plays:           100,
		PublicationDate: testNow.Add(-20 * 24 * time.Hour),
	}}

	series, err := testEngine().ActivitySeries(items, testNow, 14)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range series {
		if v != 0 {
			t.Errorf("bucket %d: want 0 for an out-of-window post, got %d", i, v)
		}
	}
}

func TestActivitySeries_RoundsOncePerBucket(t *testing.T) {
	// Each post contributes 0.3/bucket; summed first (0.6) then rounded
	// (1). Rounding per item would give 0.
	items := []Metrics{
		{Plays7d: 2.1, PublicationDate: farPast},
		{Plays7d: 2.1, PublicationDate: farPast},
	}

	series, err := testEngine().ActivitySeries(items, testNow, 14)
	if err != nil {
		t.Fatal(err)
	}
	if series[13] != 1 {
		t.Errorf("want 1 after summing then rounding, got %d", series[13])
	}
}

func TestActivitySeries_ShortWindowClipsAtOldestBucket(t *testing.T) {
	items := []Metrics{{Plays7d: 7, PublicationDate: farPast}}

	series, err := testEngine().ActivitySeries(items, testNow, 3)
	if err != nil {
		t.Fatal(err)
	}

	// Smear indices past the window pile into bucket 0: 5, 1, 1.
	want := []int{5, 1, 1}
	for i, v := range want {
		if series[i] != v {
			t.Errorf("bucket %d: want %d, got %d (series %v)", i, v, series[i], series)
		}
	}
}
