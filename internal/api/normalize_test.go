package api

import (
	"errors"
	"testing"
)

func TestDecodePage_FlatArray(t *testing.T) {
	raw := []byte(`[{"id": 1, "title": "One"}, {"id": 2, "title": "Two"}]`)

	page, err := DecodePage(raw, 24)
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	// A bare array is evidently a single unpaginated page.
	if page.Meta.Total != 2 {
		t.Errorf("total = %d, want 2", page.Meta.Total)
	}
	if page.Meta.CurrentPage != 1 || page.Meta.LastPage != 1 {
		t.Errorf("pages = %d/%d, want 1/1", page.Meta.CurrentPage, page.Meta.LastPage)
	}
	if page.Meta.HasNext || page.Meta.HasPrev {
		t.Errorf("availability = next:%v prev:%v, want neither", page.Meta.HasNext, page.Meta.HasPrev)
	}
}

func TestDecodePage_NestedMatchesFlatEnvelope(t *testing.T) {
	single := []byte(`{
		"data": [{"id": 1, "title": "One"}],
		"current_page": 2, "last_page": 5, "per_page": 10, "total": 42
	}`)
	nested := []byte(`{
		"data": {
			"data": [{"id": 1, "title": "One"}],
			"current_page": 2, "last_page": 5, "per_page": 10, "total": 42
		}
	}`)

	a, err := DecodePage(single, 24)
	if err != nil {
		t.Fatalf("DecodePage(single) failed: %v", err)
	}
	b, err := DecodePage(nested, 24)
	if err != nil {
		t.Fatalf("DecodePage(nested) failed: %v", err)
	}

	if a.Meta != b.Meta {
		t.Errorf("nested meta %+v differs from single-level meta %+v", b.Meta, a.Meta)
	}
	if a.Meta.CurrentPage != 2 || a.Meta.LastPage != 5 || a.Meta.Total != 42 {
		t.Errorf("meta = %+v, want 2/5 total 42", a.Meta)
	}
	if !a.Meta.HasNext || !a.Meta.HasPrev {
		t.Errorf("availability = next:%v prev:%v, want both", a.Meta.HasNext, a.Meta.HasPrev)
	}
}

func TestDecodePage_DerivesLastPageFromTotal(t *testing.T) {
	raw := []byte(`{"data": [{"id": 1}], "current_page": 1, "per_page": 10, "total": 25}`)

	page, err := DecodePage(raw, 24)
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}
	if page.Meta.LastPage != 3 {
		t.Errorf("last_page = %d, want 3", page.Meta.LastPage)
	}
}

func TestDecodePage_EmptyCollection(t *testing.T) {
	raw := []byte(`{"data": [], "per_page": 24, "total": 0}`)

	page, err := DecodePage(raw, 24)
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}
	if page.Meta.LastPage != 1 {
		t.Errorf("last_page = %d, want 1", page.Meta.LastPage)
	}
	if page.Meta.Total != 0 {
		t.Errorf("total = %d, want 0", page.Meta.Total)
	}
	if page.Meta.CurrentPage != 1 {
		t.Errorf("current_page = %d, want 1", page.Meta.CurrentPage)
	}
}

func TestDecodePage_HasMoreHeuristic(t *testing.T) {
	// No last_page, no total: only a next-page hint keeps pagination moving.
	raw := []byte(`{"data": [{"id": 1}], "current_page": 2, "per_page": 1, "next_page_url": "/articles?page=3", "prev_page_url": "/articles?page=1"}`)

	page, err := DecodePage(raw, 24)
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}
	if !page.Meta.HasNext {
		t.Errorf("HasNext = false, want true")
	}
	if !page.Meta.HasPrev {
		t.Errorf("HasPrev = false, want true")
	}
	if page.Meta.LastPage < 3 {
		t.Errorf("last_page = %d, want at least current+1", page.Meta.LastPage)
	}
}

func TestDecodePage_ClampsCurrentPage(t *testing.T) {
	raw := []byte(`{"data": [], "current_page": 9, "last_page": 4, "per_page": 24, "total": 80}`)

	page, err := DecodePage(raw, 24)
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}
	if page.Meta.CurrentPage != 4 {
		t.Errorf("current_page = %d, want clamped to 4", page.Meta.CurrentPage)
	}
}

func TestDecodePage_CarriesFacets(t *testing.T) {
	raw := []byte(`{
		"data": [],
		"per_page": 24, "total": 0,
		"facets": {"status": [{"value": "archived", "count": 7}]}
	}`)

	page, err := DecodePage(raw, 24)
	if err != nil {
		t.Fatalf("DecodePage failed: %v", err)
	}
	counts := page.Facets["status"]
	if len(counts) != 1 || counts[0].Value != "archived" || counts[0].Count != 7 {
		t.Errorf("facets = %+v, want archived:7", page.Facets)
	}
}

func TestDecodePage_UnknownShape(t *testing.T) {
	for _, raw := range []string{`"surprise"`, `42`, `{"data": "nope"}`, `{}`} {
		_, err := DecodePage([]byte(raw), 24)
		if !errors.Is(err, ErrUnknownShape) {
			t.Errorf("DecodePage(%s) = %v, want ErrUnknownShape", raw, err)
		}
	}
}
