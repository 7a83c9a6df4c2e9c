package stats

import (
	"fmt"
	"strconv"
)

// FormatCount renders a counter the way the dashboard does: 1.2k, 3.4M,
// plain digits below a thousand.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	}
	return strconv.Itoa(n)
}
