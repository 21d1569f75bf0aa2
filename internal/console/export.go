package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"id", "title", "slug", "status", "visibility", "published_at",
	"view_count", "rating_average", "rating_count", "author_id", "author_name",
}

// WriteCSV exports the given articles, one row per record in the fixed
// column order, every field quoted. Callers pass the currently visible
// page: the export mirrors what the user is looking at, not the whole
// collection.
func WriteCSV(w io.Writer, articles []models.Article) error {
	if err := writeRow(w, csvHeader); err != nil {
		return err
	}
	for i := range articles {
		a := &articles[i]
		published := ""
		if a.PublishedAt != nil {
			published = a.PublishedAt.Format("2006-01-02")
		}
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.Title,
			a.Slug,
			a.Status,
			a.Visibility,
			published,
			strconv.FormatInt(a.ViewCount, 10),
			strconv.FormatFloat(a.RatingAvg, 'f', 2, 64),
			strconv.FormatInt(a.RatingCount, 10),
			strconv.FormatInt(a.Author.ID, 10),
			a.Author.Name,
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow emits one CSV record with unconditional quoting, which is what
// downstream spreadsheet imports expect from this export.
func writeRow(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	return nil
}
