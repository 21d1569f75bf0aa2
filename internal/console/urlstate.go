package console

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// The shareable state string uses short keys in a fixed order, so that
// decoding and re-encoding a canonical string reproduces it byte for byte.
// Keys at their default value are left out entirely.
var stateKeys = []string{
	"q", "cats", "tags", "authors", "featured", "sticky",
	"from", "to", "rmin", "rmax", "status", "visibility",
	"sort", "dir", "page", "pp", "view", "filters_open",
}

// EncodeQuery serializes the criteria tuple into the permalink query
// string. Selection is deliberately not part of it: a shared link restores
// the view, not another user's checkboxes.
func EncodeQuery(q models.Query, filtersOpen bool) string {
	f := q.Filters
	vals := map[string]string{}

	if q.Search != "" {
		vals["q"] = q.Search
	}
	if len(f.Categories) > 0 {
		vals["cats"] = strings.Join(f.Categories, ",")
	}
	if len(f.Tags) > 0 {
		vals["tags"] = strings.Join(f.Tags, ",")
	}
	if len(f.Authors) > 0 {
		vals["authors"] = strings.Join(f.Authors, ",")
	}
	if f.Featured {
		vals["featured"] = "1"
	}
	if f.Sticky {
		vals["sticky"] = "1"
	}
	if f.DateFrom != "" {
		vals["from"] = f.DateFrom
	}
	if f.DateTo != "" {
		vals["to"] = f.DateTo
	}
	if f.RatingMin > models.RatingMin {
		vals["rmin"] = strconv.FormatFloat(f.RatingMin, 'f', -1, 64)
	}
	if f.RatingMax < models.RatingMax {
		vals["rmax"] = strconv.FormatFloat(f.RatingMax, 'f', -1, 64)
	}
	if f.Status != "" {
		vals["status"] = f.Status
	}
	if f.Visibility != "" {
		vals["visibility"] = f.Visibility
	}
	if q.SortBy != models.DefaultSortBy {
		vals["sort"] = q.SortBy
	}
	if q.SortDir != models.DefaultSortDir {
		vals["dir"] = q.SortDir
	}
	if q.Page > 1 {
		vals["page"] = strconv.Itoa(q.Page)
	}
	if q.PerPage != models.DefaultPerPage {
		vals["pp"] = strconv.Itoa(q.PerPage)
	}
	if q.ViewMode != models.ViewTable {
		vals["view"] = q.ViewMode
	}
	if filtersOpen {
		vals["filters_open"] = "1"
	}

	var b strings.Builder
	for _, key := range stateKeys {
		v, ok := vals[key]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// DecodeQuery parses a permalink string back into the criteria tuple.
// Absent keys take their defaults; unparseable values count as absent.
func DecodeQuery(s string) (models.Query, bool, error) {
	q := models.DefaultQuery()

	vals, err := url.ParseQuery(strings.TrimPrefix(s, "?"))
	if err != nil {
		return q, false, err
	}

	q.Search = vals.Get("q")
	q.Filters.Categories = splitList(vals.Get("cats"))
	q.Filters.Tags = splitList(vals.Get("tags"))
	q.Filters.Authors = splitList(vals.Get("authors"))
	q.Filters.Featured = vals.Get("featured") == "1"
	q.Filters.Sticky = vals.Get("sticky") == "1"
	q.Filters.DateFrom = vals.Get("from")
	q.Filters.DateTo = vals.Get("to")
	if r, err := strconv.ParseFloat(vals.Get("rmin"), 64); err == nil {
		q.Filters.RatingMin = r
	}
	if r, err := strconv.ParseFloat(vals.Get("rmax"), 64); err == nil {
		q.Filters.RatingMax = r
	}
	q.Filters.Status = vals.Get("status")
	q.Filters.Visibility = vals.Get("visibility")
	if v := vals.Get("sort"); v != "" {
		q.SortBy = v
	}
	if v := vals.Get("dir"); v != "" {
		q.SortDir = v
	}
	if p, err := strconv.Atoi(vals.Get("page")); err == nil && p >= 1 {
		q.Page = p
	}
	if pp, err := strconv.Atoi(vals.Get("pp")); err == nil && pp >= 1 {
		q.PerPage = pp
	}
	if v := vals.Get("view"); v != "" {
		q.ViewMode = v
	}
	filtersOpen := vals.Get("filters_open") == "1"

	normalizeQuery(&q)
	return q, filtersOpen, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
