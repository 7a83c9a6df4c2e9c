package stats

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/BeatNow2-0/beatpulse/pkg/catalog"
)

// farPast is the sentinel for unparsable publication dates: the item is
// treated as maximally old instead of being dropped.
var farPast = time.Unix(0, 0).UTC()

// fieldAliases maps each canonical field to the raw keys it may arrive
// under, in priority order. The first present, non-nil value wins. Keeping
// this as a table (instead of inline fallbacks at every use site) is what
// makes the normalization auditable.
var fieldAliases = map[string][]string{
	"id":               {"_id", "id", "post_id"},
	"title":            {"title", "name"},
	"publication_date": {"publication_date", "published_at", "created_at", "date"},
	"plays":            {"plays", "play_count"},
	"likes":            {"likes", "like_count"},
	"saves":            {"saves", "save_count"},
	"plays_7d":         {"plays_7d", "plays7d", "weekly_plays"},
	"likes_7d":         {"likes_7d", "likes7d", "weekly_likes"},
	"saves_7d":         {"saves_7d", "saves7d", "weekly_saves"},
	"price":            {"price", "license_price"},
	"sales_count":      {"sales_count", "sales", "sold_count"},
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts raw post records into canonical metrics. One output
// per input, input order preserved, nothing dropped: garbage fields are
// defaulted or clamped, never rejected. Given the same records and the
// same now, the output is identical.
func (e *Engine) Normalize(raw []catalog.RawPost, now time.Time) []Metrics {
	items := make([]Metrics, len(raw))
	for i, p := range raw {
		m := Metrics{
			ID:              asString(resolve(p, "id")),
			Title:           asString(resolve(p, "title")),
			PublicationDate: asDate(resolve(p, "publication_date")),
			Plays:           asCount(resolve(p, "plays")),
			Likes:           asCount(resolve(p, "likes")),
			Saves:           asCount(resolve(p, "saves")),
			Plays7d:         asNumber(resolve(p, "plays_7d")),
			Likes7d:         asNumber(resolve(p, "likes_7d")),
			Saves7d:         asNumber(resolve(p, "saves_7d")),
			Price:           asNumber(resolve(p, "price")),
			SalesCount:      asCount(resolve(p, "sales_count")),
		}
		if m.ID == "" {
			m.ID = placeholderID(i, m)
		}
		m.AgeDays = ageDays(m.PublicationDate, now)
		m.TrendingScore = e.Score(m, now)
		items[i] = m
	}
	return items
}

func resolve(p catalog.RawPost, field string) any {
	for _, key := range fieldAliases[field] {
		if v, ok := p[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// placeholderID synthesizes a stable id for records the backend returned
// without one. SHA1 UUIDs are deterministic, so normalization stays pure.
func placeholderID(index int, m Metrics) string {
	seed := fmt.Sprintf("beatpulse:%d|%s|%d", index, m.Title, m.PublicationDate.UnixMilli())
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func ageDays(published, now time.Time) float64 {
	age := now.Sub(published).Hours() / 24
	if age < 0 {
		return 0
	}
	return age
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// asNumber coerces JSON numbers, native ints and numeric strings to a
// non-negative float64. Anything else is 0.
func asNumber(v any) float64 {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func asCount(v any) int {
	return int(asNumber(v))
}

func asDate(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t
			}
		}
	}
	return farPast
}
