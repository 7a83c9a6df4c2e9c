package stats

import "testing"

func TestTotal(t *testing.T) {
	items := []Metrics{
		{Plays: 100, Plays7d: 10, Likes: 5, Saves: 2, Price: 19.99, SalesCount: 3},
		{Plays: 50, Plays7d: 5, Likes: 1, Saves: 1, Price: 9.99, SalesCount: 0},
	}

	got := Total(items)

	if got.TotalPlays != 150 {
		t.Errorf("TotalPlays: want 150, got %d", got.TotalPlays)
	}
	if got.Plays7d != 15 {
		t.Errorf("Plays7d: want 15, got %v", got.Plays7d)
	}
	if got.EstimatedPlays30d != 60 {
		t.Errorf("EstimatedPlays30d: want 60, got %v", got.EstimatedPlays30d)
	}
	if got.TotalLikes != 6 || got.TotalSaves != 3 {
		t.Errorf("likes/saves: want 6/3, got %d/%d", got.TotalLikes, got.TotalSaves)
	}
	if want := 19.99 * 3; got.EstimatedRevenue != want {
		t.Errorf("EstimatedRevenue: want %v, got %v", want, got.EstimatedRevenue)
	}
	if got.TotalPosts != 2 {
		t.Errorf("TotalPosts: want 2, got %d", got.TotalPosts)
	}
}

func TestTotal_EmptyCollection(t *testing.T) {
	got := Total(nil)
	if got != (Totals{}) {
		t.Errorf("empty collection must yield all-zero totals, got %+v", got)
	}
}
