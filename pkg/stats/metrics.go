// Package stats is the engagement analytics and ranking engine. It turns
// raw, inconsistently shaped post records into trending scores, popularity
// rankings, activity histograms, portfolio totals and CSV reports. Every
// entry point is a pure, synchronous computation over the inputs it is
// handed; the package never touches the network, the clock or global state.
package stats

import "time"

// Metrics is the canonical, fully defaulted representation of one post's
// engagement data. AgeDays and TrendingScore are derived per pass and are
// never persisted.
type Metrics struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	PublicationDate time.Time `json:"publication_date"`
	Plays           int       `json:"plays"`
	Likes           int       `json:"likes"`
	Saves           int       `json:"saves"`
	Plays7d         float64   `json:"plays_7d"`
	Likes7d         float64   `json:"likes_7d"`
	Saves7d         float64   `json:"saves_7d"`
	Price           float64   `json:"price"`
	SalesCount      int       `json:"sales_count"`

	AgeDays       float64 `json:"age_days"`
	TrendingScore float64 `json:"trending_score"`
}

// Weights are the engine's tuning constants. The values themselves come
// from the production dashboard and have no documented rationale beyond
// "observed to look right", which is why they are overridable rather than
// inlined.
type Weights struct {
	Like     float64 // weekly likes multiplier in the trending score
	Save     float64 // weekly saves multiplier in the trending score
	AgeDecay float64 // score penalty per day of age
	Spike    float64 // share of lifetime plays attributed to publication day
	Smear    int     // buckets the weekly play counter is spread across
}

// DefaultWeights returns the production tuning.
func DefaultWeights() Weights {
	return Weights{
		Like:     2,
		Save:     3,
		AgeDecay: 0.2,
		Spike:    0.25,
		Smear:    7,
	}
}

// Engine runs the analytics pipeline with a fixed set of weights.
type Engine struct {
	w          Weights
	windowDays int
}

// NewEngine creates an engine. Zero weights or a non-positive window fall
// back to the defaults.
func NewEngine(w Weights, windowDays int) *Engine {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	if w.Smear <= 0 {
		w.Smear = DefaultWeights().Smear
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Engine{w: w, windowDays: windowDays}
}
