package stats

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestExportCSV_EmptyInputIsHeaderOnly(t *testing.T) {
	got := ExportCSV(nil, ExportColumns)
	want := "id,title,publication_date,plays,plays_7d,likes,saves,price,sales_count"
	if got != want {
		t.Errorf("want header-only output %q, got %q", want, got)
	}
}

func TestExportCSV_QuotesAndNumbers(t *testing.T) {
	items := []Metrics{{
		ID:              "p1",
		Title:           `He said "hi", ok`,
		PublicationDate: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Plays:           100,
		Plays7d:         12.5,
		Likes:           7,
		Saves:           3,
		Price:           19.99,
		SalesCount:      2,
	}}

	got := ExportCSV(items, ExportColumns)
	rows := strings.Split(got, "\n")
	if len(rows) != 2 {
		t.Fatalf("want header + 1 row, got %d rows", len(rows))
	}

	if !strings.Contains(rows[1], `"He said ""hi"", ok"`) {
		t.Errorf("title must be quoted with doubled quotes, got %q", rows[1])
	}
	if !strings.Contains(rows[1], ",100,12.5,7,3,19.99,2") {
		t.Errorf("numbers must be unquoted decimals, got %q", rows[1])
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	items := []Metrics{
		{
			ID:              "a",
			Title:           "plain title",
			PublicationDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			Plays:           1, Plays7d: 2, Likes: 3, Saves: 4, Price: 5.5, SalesCount: 6,
		},
		{
			ID:              "b",
			Title:           `commas, and "quotes"`,
			PublicationDate: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		},
	}

	records, err := csv.NewReader(strings.NewReader(ExportCSV(items, ExportColumns))).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV must parse under a standard reader: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(records))
	}

	for i, m := range items {
		row := records[i+1]
		if row[0] != m.ID || row[1] != m.Title {
			t.Errorf("row %d: id/title did not round-trip: %v", i, row)
		}
		if row[2] != m.PublicationDate.UTC().Format(time.RFC3339) {
			t.Errorf("row %d: publication date did not round-trip: %q", i, row[2])
		}
		if row[3] != strconv.Itoa(m.Plays) || row[8] != strconv.Itoa(m.SalesCount) {
			t.Errorf("row %d: counters did not round-trip: %v", i, row)
		}
	}
}

func TestExportCSV_UnknownColumnIsEmpty(t *testing.T) {
	got := ExportCSV([]Metrics{{ID: "x"}}, []string{"id", "bogus"})
	rows := strings.Split(got, "\n")
	if rows[1] != `"x",` {
		t.Errorf("unknown column must emit empty string, got %q", rows[1])
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename("kasi"); got != "kasi-stats.csv" {
		t.Errorf("want kasi-stats.csv, got %q", got)
	}
	if got := ExportFilename(""); got != "producer-stats.csv" {
		t.Errorf("anonymous export must fall back, got %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{12500, "12.5k"},
		{2_400_000, "2.4M"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d): want %q, got %q", tt.n, tt.want, got)
		}
	}
}
