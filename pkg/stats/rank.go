package stats

import (
	"math"
	"sort"
	"time"
)

// newWindow is how long a post keeps its "new" badge.
const newWindow = 7 * 24 * time.Hour

// Ranking holds the two orderings the dashboard renders plus the dynamic
// trending cutoff.
type Ranking struct {
	ByScore   []Metrics `json:"by_score"`
	ByRecency []Metrics `json:"by_recency"`
	Threshold float64   `json:"threshold"`
}

// Rank sorts posts by score and by recency and computes the trending
// threshold. Both sorts are stable: posts that tie keep their input order,
// which the dashboard relies on across refreshes.
func (e *Engine) Rank(items []Metrics) Ranking {
	byScore := make([]Metrics, len(items))
	copy(byScore, items)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].TrendingScore > byScore[j].TrendingScore
	})

	byRecency := make([]Metrics, len(items))
	copy(byRecency, items)
	sort.SliceStable(byRecency, func(i, j int) bool {
		return byRecency[i].PublicationDate.After(byRecency[j].PublicationDate)
	})

	return Ranking{
		ByScore:   byScore,
		ByRecency: byRecency,
		Threshold: trendingThreshold(byScore),
	}
}

// trendingThreshold is the score at the boundary of the top 20% of the
// collection. The index arithmetic is load-bearing: for 1..5 posts it
// selects index 0, so the single best post is the whole trending set.
func trendingThreshold(byScore []Metrics) float64 {
	n := len(byScore)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(float64(n)*0.2)) - 1
	if idx < 0 {
		idx = 0
	}
	return byScore[idx].TrendingScore
}

// IsNew reports whether a post was published inside the last 7 days.
func IsNew(m Metrics, now time.Time) bool {
	return now.Sub(m.PublicationDate) < newWindow
}

// IsTrending reports whether a post clears the trending threshold. A zero
// threshold flags nothing: when every score is 0 the whole catalog would
// otherwise tie its way into the trending set.
func IsTrending(m Metrics, threshold float64) bool {
	return threshold > 0 && m.TrendingScore >= threshold
}
