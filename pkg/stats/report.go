package stats

import (
	"time"

	"github.com/BeatNow2-0/beatpulse/pkg/catalog"
)

// Item is one post annotated with its dashboard badges.
type Item struct {
	Metrics
	IsNew      bool `json:"is_new"`
	IsTrending bool `json:"is_trending"`
}

// Report is the full dashboard view-model for one refresh.
type Report struct {
	Items       []Item    `json:"items"`  // trending score descending
	Recent      []Item    `json:"recent"` // publication date descending
	Totals      Totals    `json:"totals"`
	Activity    []int     `json:"activity"`
	Threshold   float64   `json:"trending_threshold"`
	GeneratedAt time.Time `json:"generated_at"`
}

// BuildReport runs the whole pipeline over one raw payload: normalize,
// score, rank, flag, total and reconstruct activity. Each call owns its
// input and output; concurrent calls are independent and it is the
// caller's job to surface only the latest result.
func (e *Engine) BuildReport(raw []catalog.RawPost, now time.Time) Report {
	items := e.Normalize(raw, now)
	ranking := e.Rank(items)

	// The window comes from NewEngine, which guarantees it is positive.
	series, _ := e.ActivitySeries(items, now, e.windowDays)

	return Report{
		Items:       annotate(ranking.ByScore, ranking.Threshold, now),
		Recent:      annotate(ranking.ByRecency, ranking.Threshold, now),
		Totals:      Total(items),
		Activity:    series,
		Threshold:   ranking.Threshold,
		GeneratedAt: now,
	}
}

func annotate(items []Metrics, threshold float64, now time.Time) []Item {
	out := make([]Item, len(items))
	for i, m := range items {
		out[i] = Item{
			Metrics:    m,
			IsNew:      IsNew(m, now),
			IsTrending: IsTrending(m, threshold),
		}
	}
	return out
}
