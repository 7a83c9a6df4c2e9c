package stats

// Totals are the portfolio-wide KPI numbers shown at the top of the
// dashboard. EstimatedPlays30d extrapolates the weekly counter; it is an
// estimate, not a measurement.
type Totals struct {
	TotalPlays        int     `json:"total_plays"`
	Plays7d           float64 `json:"plays_7d"`
	EstimatedPlays30d float64 `json:"estimated_plays_30d"`
	TotalLikes        int     `json:"total_likes"`
	TotalSaves        int     `json:"total_saves"`
	EstimatedRevenue  float64 `json:"estimated_revenue"`
	TotalPosts        int     `json:"total_posts"`
}

// Total rolls up the whole collection. An empty collection yields all
// zeros.
func Total(items []Metrics) Totals {
	t := Totals{TotalPosts: len(items)}
	for _, m := range items {
		t.TotalPlays += m.Plays
		t.Plays7d += m.Plays7d
		t.TotalLikes += m.Likes
		t.TotalSaves += m.Saves
		t.EstimatedRevenue += float64(m.SalesCount) * m.Price
	}
	t.EstimatedPlays30d = t.Plays7d * 4
	return t
}
