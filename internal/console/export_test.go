package console

import (
	"strings"
	"testing"
	"time"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

func TestWriteCSVHeaderOrder(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, nil); err != nil {
		t.Fatal(err)
	}
	want := `"id","title","slug","status","visibility","published_at","view_count","rating_average","rating_count","author_id","author_name"` + "\r\n"
	if b.String() != want {
		t.Errorf("header = %q, want %q", b.String(), want)
	}
}

func TestWriteCSVQuotesEveryField(t *testing.T) {
	published := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	articles := []models.Article{
		{
			ID:          42,
			Title:       `The "Go" Way, Revisited`,
			Slug:        "the-go-way-revisited",
			Status:      models.StatusPublished,
			Visibility:  "public",
			PublishedAt: &published,
			ViewCount:   1984,
			RatingAvg:   4.5,
			RatingCount: 12,
			Author:      models.Author{ID: 7, Name: "Jane Doe"},
		},
		{
			ID:     43,
			Title:  "Draft, untitled",
			Status: models.StatusDraft,
		},
	}

	var b strings.Builder
	if err := WriteCSV(&b, articles); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	want42 := `"42","The ""Go"" Way, Revisited","the-go-way-revisited","published","public","2026-03-14","1984","4.50","12","7","Jane Doe"`
	if lines[1] != want42 {
		t.Errorf("row = %q,\nwant  %q", lines[1], want42)
	}

	// Missing publication date exports as an empty quoted field.
	want43 := `"43","Draft, untitled","","draft","","","0","0.00","0","0",""`
	if lines[2] != want43 {
		t.Errorf("row = %q,\nwant  %q", lines[2], want43)
	}
}
