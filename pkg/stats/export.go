package stats

import (
	"strconv"
	"strings"
	"time"
)

// ExportColumns is the fixed column order of the producer CSV report.
var ExportColumns = []string{
	"id", "title", "publication_date",
	"plays", "plays_7d", "likes", "saves",
	"price", "sales_count",
}

// ExportFilename names the downloadable report for a producer. Identity
// is injected by the caller; the engine never reads it from anywhere.
func ExportFilename(producer string) string {
	if producer == "" {
		producer = "producer"
	}
	return producer + "-stats.csv"
}

// ExportCSV serializes posts to CSV. Textual values are always quoted
// (embedded quotes doubled), numeric values are emitted as bare decimals,
// and unknown columns emit an empty string. Empty input still produces
// the header row. Rows are joined with \n; the output parses back cleanly
// under any standard CSV reader.
func ExportCSV(items []Metrics, columns []string) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strings.Join(columns, ","))

	cells := make([]string, len(columns))
	for _, m := range items {
		for i, col := range columns {
			cells[i] = exportCell(m, col)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func exportCell(m Metrics, column string) string {
	switch column {
	case "id":
		return quote(m.ID)
	case "title":
		return quote(m.Title)
	case "publication_date":
		return quote(m.PublicationDate.UTC().Format(time.RFC3339))
	case "plays":
		return strconv.Itoa(m.Plays)
	case "plays_7d":
		return formatNumber(m.Plays7d)
	case "likes":
		return strconv.Itoa(m.Likes)
	case "saves":
		return strconv.Itoa(m.Saves)
	case "likes_7d":
		return formatNumber(m.Likes7d)
	case "saves_7d":
		return formatNumber(m.Saves7d)
	case "price":
		return formatNumber(m.Price)
	case "sales_count":
		return strconv.Itoa(m.SalesCount)
	}
	return ""
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
