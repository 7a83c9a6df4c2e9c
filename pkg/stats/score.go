package stats

import "time"

// Score computes the trending score for one post: weekly engagement
// weighted against age decay. Weekly plays take precedence; lifetime plays
// are the fallback when no weekly counter is present. Scores never go
// below zero, however old the post.
func (e *Engine) Score(m Metrics, now time.Time) float64 {
	playsTerm := m.Plays7d
	if playsTerm <= 0 {
		playsTerm = float64(m.Plays)
	}

	raw := playsTerm +
		m.Likes7d*e.w.Like +
		m.Saves7d*e.w.Save -
		ageDays(m.PublicationDate, now)*e.w.AgeDecay

	if raw < 0 {
		return 0
	}
	return raw
}
