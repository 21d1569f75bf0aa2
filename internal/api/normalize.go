package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// ErrUnknownShape means the server payload matched none of the documented
// response shapes. The caller surfaces it instead of guessing.
var ErrUnknownShape = errors.New("unrecognized article list payload shape")

// envelope covers the paginated response fields at whichever nesting level
// they appear. Pointer fields distinguish absent from zero.
type envelope struct {
	Data        json.RawMessage                `json:"data"`
	CurrentPage *int                           `json:"current_page"`
	LastPage    *int                           `json:"last_page"`
	PerPage     *int                           `json:"per_page"`
	Total       *int64                         `json:"total"`
	NextPageURL *string                        `json:"next_page_url"`
	PrevPageURL *string                        `json:"prev_page_url"`
	HasMore     *bool                          `json:"has_more"`
	Facets      map[string][]models.FacetCount `json:"facets"`
}

// DecodePage normalizes an article list response into one canonical page.
// The server answers in one of three shapes: a flat array, a paginated
// envelope, or an envelope whose data is itself a nested envelope. Each
// shape has its own decoder; anything else is ErrUnknownShape. All
// downstream pagination logic trusts the meta produced here.
func DecodePage(raw []byte, fallbackPerPage int) (*models.Page, error) {
	switch firstByte(raw) {
	case '[':
		return decodeFlat(raw, fallbackPerPage)
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decoding article list envelope: %w", err)
		}
		switch firstByte(env.Data) {
		case '[':
			return decodeEnvelope(&env, fallbackPerPage)
		case '{':
			return decodeNested(&env, fallbackPerPage)
		}
		return nil, ErrUnknownShape
	}
	return nil, ErrUnknownShape
}

// decodeFlat handles a bare article array: evidently a single, unpaginated
// page, so the item count is the total.
func decodeFlat(raw []byte, fallbackPerPage int) (*models.Page, error) {
	var items []models.Article
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding article array: %w", err)
	}
	env := envelope{}
	return &models.Page{
		Items: items,
		Meta:  deriveMeta(&env, len(items), fallbackPerPage),
	}, nil
}

// decodeEnvelope handles the single-level shape: data array plus pagination
// fields side by side.
func decodeEnvelope(env *envelope, fallbackPerPage int) (*models.Page, error) {
	var items []models.Article
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("decoding article data: %w", err)
	}
	return &models.Page{
		Items:  items,
		Meta:   deriveMeta(env, len(items), fallbackPerPage),
		Facets: env.Facets,
	}, nil
}

// decodeNested handles the doubly nested shape: the outer data holds
// another envelope carrying the pagination fields. Facets may sit at either
// level; the outer one wins when both are present.
func decodeNested(outer *envelope, fallbackPerPage int) (*models.Page, error) {
	var inner envelope
	if err := json.Unmarshal(outer.Data, &inner); err != nil {
		return nil, fmt.Errorf("decoding nested article envelope: %w", err)
	}
	if firstByte(inner.Data) != '[' {
		return nil, ErrUnknownShape
	}
	page, err := decodeEnvelope(&inner, fallbackPerPage)
	if err != nil {
		return nil, err
	}
	if outer.Facets != nil {
		page.Facets = outer.Facets
	}
	return page, nil
}

// deriveMeta fills the canonical pagination block, reconstructing whatever
// the server left out. Absent last_page comes from total/per_page; absent
// total falls back to the observed item count when nothing indicates more
// pages; as a last resort a next-page indicator alone keeps pagination
// moving one page at a time.
func deriveMeta(env *envelope, itemCount, fallbackPerPage int) models.Meta {
	perPage := fallbackPerPage
	if env.PerPage != nil && *env.PerPage > 0 {
		perPage = *env.PerPage
	}
	if perPage <= 0 {
		perPage = itemCount
	}
	if perPage <= 0 {
		perPage = 1
	}

	current := 1
	if env.CurrentPage != nil && *env.CurrentPage >= 1 {
		current = *env.CurrentPage
	}

	hasNextHint := (env.NextPageURL != nil && *env.NextPageURL != "") ||
		(env.HasMore != nil && *env.HasMore)
	hasPrevHint := env.PrevPageURL != nil && *env.PrevPageURL != ""
	paginated := env.NextPageURL != nil || env.PrevPageURL != nil || env.HasMore != nil ||
		env.LastPage != nil || env.Total != nil

	var total int64
	switch {
	case env.Total != nil:
		total = *env.Total
	case !paginated:
		total = int64(itemCount)
	}

	last := 0
	switch {
	case env.LastPage != nil && *env.LastPage >= 1:
		last = *env.LastPage
	case env.Total != nil:
		last = int((*env.Total + int64(perPage) - 1) / int64(perPage))
	case hasNextHint:
		last = current + 1
	default:
		last = current
	}
	if last < 1 {
		last = 1
	}
	if current > last {
		current = last
	}

	return models.Meta{
		CurrentPage: current,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
		HasNext:     current < last || hasNextHint,
		HasPrev:     current > 1 || hasPrevHint,
	}
}

// firstByte returns the first non-whitespace byte of raw, or 0.
func firstByte(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
