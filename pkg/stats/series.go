package stats

import (
	"errors"
	"math"
	"time"
)

// DefaultWindowDays is the activity window the dashboard renders.
const DefaultWindowDays = 14

// ErrInvalidWindow reports a non-positive activity window. Unlike dirty
// post data, which is absorbed, this is caller misuse and fails fast.
var ErrInvalidWindow = errors.New("stats: activity window must be at least one day")

// ActivitySeries reconstructs an approximate daily-activity histogram for
// the last days days. Index 0 is the oldest bucket, index days-1 is today.
//
// There is no per-day history upstream, only weekly and lifetime
// aggregates, so the shape is a blend of two contributions per post: the
// weekly play counter smeared evenly across the most recent 7 buckets
// (overflow past the window piles into bucket 0), and a one-time spike of
// a quarter of lifetime plays on the publication day if it falls inside
// the window. Buckets are rounded once, after every post has been summed.
func (e *Engine) ActivitySeries(items []Metrics, now time.Time, days int) ([]int, error) {
	if days <= 0 {
		return nil, ErrInvalidWindow
	}

	buckets := make([]float64, days)
	for _, m := range items {
		for i := 0; i < e.w.Smear; i++ {
			idx := days - 1 - i
			if idx < 0 {
				idx = 0
			}
			buckets[idx] += m.Plays7d / float64(e.w.Smear)
		}

		age := int(math.Floor(ageDays(m.PublicationDate, now)))
		if age >= 0 && age < days {
			buckets[days-1-age] += float64(m.Plays) * e.w.Spike
		}
	}

	series := make([]int, days)
	for i, v := range buckets {
		series[i] = int(math.Round(v))
	}
	return series, nil
}
