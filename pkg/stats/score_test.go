package stats

import (
	"math"
	"testing"
	"time"
)

func TestScore_LifetimeFallbackWhenWeeklyZero(t *testing.T) {
	// 100 lifetime plays, no weekly counters, published one day ago:
	// 100 + 0 + 0 - 1*0.2 = 99.8.
	m := Metrics{
		Plays:           100,
		Plays7d:         0,
		PublicationDate: testNow.Add(-24 * time.Hour),
	}

	got := testEngine().Score(m, testNow)
	if math.Abs(got-99.8) > 1e-9 {
		t.Errorf("expected 99.8, got %v", got)
	}
}

func TestScore_WeeklyPlaysTakePrecedence(t *testing.T) {
	m := Metrics{
		Plays:           1000,
		Plays7d:         10,
		PublicationDate: testNow,
	}

	if got := testEngine().Score(m, testNow); got != 10 {
		t.Errorf("weekly plays must win over lifetime, got %v", got)
	}
}

func TestScore_EngagementWeights(t *testing.T) {
	m := Metrics{
		Plays7d:         5,
		Likes7d:         4,
		Saves7d:         3,
		PublicationDate: testNow,
	}

	// 5 + 4*2 + 3*3 = 22, no age decay.
	if got := testEngine().Score(m, testNow); got != 22 {
		t.Errorf("expected 22, got %v", got)
	}
}

func TestScore_NeverNegative(t *testing.T) {
	m := Metrics{
		Plays:           1,
		PublicationDate: testNow.AddDate(-3, 0, 0),
	}

	if got := testEngine().Score(m, testNow); got != 0 {
		t.Errorf("heavy decay must floor at 0, got %v", got)
	}
}
