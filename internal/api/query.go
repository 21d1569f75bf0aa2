package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// Build encodes collection criteria into request parameters for the article
// query endpoint. It is a pure function: same criteria, same values, no side
// effects, so the TUI uses it for live fetches and the exporter reuses it
// verbatim. Keys at their empty or default value are omitted.
func Build(q models.Query, includeFacets bool) url.Values {
	v := url.Values{}

	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}

	f := q.Filters
	setFacetParams(v, "category_ids", "categories", f.Categories)
	setFacetParams(v, "tag_ids", "tags", f.Tags)
	setFacetParams(v, "author_ids", "authors", f.Authors)

	if f.Featured {
		v.Set("featured", "1")
	}
	if f.Sticky {
		v.Set("sticky", "1")
	}
	if f.DateFrom != "" {
		v.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		v.Set("date_to", f.DateTo)
	}

	// Rating bounds only matter when they narrow the 0..5 domain.
	if f.RatingMin > models.RatingMin {
		v.Set("rating_min", formatRating(f.RatingMin))
	}
	if f.RatingMax < models.RatingMax {
		v.Set("rating_max", formatRating(f.RatingMax))
	}

	// An unset status means the live collection.
	status := f.Status
	if status == "" {
		status = models.StatusPublished
	}
	v.Set("status", status)

	if f.Visibility != "" {
		v.Set("visibility", f.Visibility)
	}

	if q.SortBy != "" && (q.SortBy != models.DefaultSortBy || q.SortDir != models.DefaultSortDir) {
		v.Set("sort_by", q.SortBy)
		v.Set("sort_direction", q.SortDir)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 && q.PerPage != models.DefaultPerPage {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}

	if includeFacets {
		v.Set("include_facets", "1")
	}

	return v
}

// setFacetParams partitions mixed facet selectors: numeric-looking values
// join into the id parameter, everything else into the slug parameter.
func setFacetParams(v url.Values, idKey, slugKey string, values []string) {
	var ids, slugs []string
	for _, raw := range values {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if isNumericID(s) {
			ids = append(ids, s)
		} else {
			slugs = append(slugs, s)
		}
	}
	if len(ids) > 0 {
		v.Set(idKey, strings.Join(ids, ","))
	}
	if len(slugs) > 0 {
		v.Set(slugKey, strings.Join(slugs, ","))
	}
}

// isNumericID reports whether s is a plain integer id: it must round-trip
// exactly through parsing, so "01" and "1e3" stay slugs.
func isNumericID(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false
	}
	return strconv.FormatInt(n, 10) == s
}

// formatRating prints a rating bound without a trailing ".0" for whole
// numbers, matching what the server and the state codec expect.
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
