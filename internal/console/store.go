// Package console holds the collection state machine behind the article
// list: the criteria tuple, fetch bookkeeping, optimistic mutations and the
// undo affordance. Everything here runs on the UI event loop; network
// completions re-enter through messages, never concurrently.
package console

import (
	"sort"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// Store owns the coherent state tuple of the collection view: search,
// filters, sort, pagination, layout, selection and column visibility. Any
// change to the query criteria resets the page to 1, since the old page
// position is meaningless under new criteria.
type Store struct {
	query       models.Query
	filtersOpen bool

	selection map[int64]bool
	columns   map[string]bool

	items  []models.Article
	meta   models.Meta
	facets map[string][]models.FacetCount

	trashCount int64

	// fetchGen stamps outgoing fetches; a completion carrying a stale
	// generation is dropped so a slow response can't overwrite newer state.
	fetchGen uint64

	// searchGen stamps debounced search edits the same way.
	searchGen     uint64
	pendingSearch string
}

// DefaultColumns is the table column set and its initial visibility.
func DefaultColumns() map[string]bool {
	return map[string]bool{
		"title":     true,
		"status":    true,
		"category":  true,
		"author":    true,
		"published": true,
		"views":     true,
		"rating":    false,
		"flags":     false,
	}
}

func NewStore(q models.Query) *Store {
	normalizeQuery(&q)
	return &Store{
		query:     q,
		selection: make(map[int64]bool),
		columns:   DefaultColumns(),
	}
}

// normalizeQuery enforces the criteria invariants: page >= 1, sane page
// size, and rating bounds inside 0 <= min <= max <= 5.
func normalizeQuery(q *models.Query) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = models.DefaultPerPage
	}
	if q.SortBy == "" {
		q.SortBy = models.DefaultSortBy
	}
	if q.SortDir != "asc" && q.SortDir != "desc" {
		q.SortDir = models.DefaultSortDir
	}
	if q.ViewMode != models.ViewTable && q.ViewMode != models.ViewCards {
		q.ViewMode = models.ViewTable
	}
	f := &q.Filters
	if f.RatingMin < models.RatingMin {
		f.RatingMin = models.RatingMin
	}
	if f.RatingMin > models.RatingMax {
		f.RatingMin = models.RatingMax
	}
	if f.RatingMax > models.RatingMax {
		f.RatingMax = models.RatingMax
	}
	if f.RatingMax < f.RatingMin {
		f.RatingMax = f.RatingMin
	}
}

func (s *Store) Query() models.Query { return s.query }

// SetSearch commits a search term immediately, bypassing the debounce.
func (s *Store) SetSearch(term string) bool {
	if term == s.query.Search {
		return false
	}
	s.query.Search = term
	s.query.Page = 1
	return true
}

// BeginSearch records a keystroke-level search edit and returns its
// generation. The caller schedules the quiet-window timer with it; only the
// newest generation commits.
func (s *Store) BeginSearch(term string) uint64 {
	s.pendingSearch = term
	s.searchGen++
	return s.searchGen
}

// CommitSearch applies the pending search if gen is still the newest edit.
// It reports whether the query actually changed.
func (s *Store) CommitSearch(gen uint64) bool {
	if gen != s.searchGen {
		return false
	}
	return s.SetSearch(s.pendingSearch)
}

// SetFilters replaces the filter block and resets the page.
func (s *Store) SetFilters(f models.Filters) {
	s.query.Filters = f
	s.query.Page = 1
	normalizeQuery(&s.query)
}

// SetSort replaces the sort key and direction and resets the page.
func (s *Store) SetSort(by, dir string) {
	if s.query.SortBy == by && s.query.SortDir == dir {
		return
	}
	s.query.SortBy = by
	s.query.SortDir = dir
	s.query.Page = 1
	normalizeQuery(&s.query)
}

// SetPage moves to another page of the same criteria, clamped to the known
// page range.
func (s *Store) SetPage(page int) bool {
	if page < 1 {
		page = 1
	}
	if s.meta.LastPage >= 1 && page > s.meta.LastPage {
		page = s.meta.LastPage
	}
	if page == s.query.Page {
		return false
	}
	s.query.Page = page
	return true
}

// SetPerPage changes the page size; the old page position no longer lines
// up, so it resets to 1.
func (s *Store) SetPerPage(perPage int) {
	if perPage < 1 || perPage == s.query.PerPage {
		return
	}
	s.query.PerPage = perPage
	s.query.Page = 1
}

func (s *Store) SetViewMode(mode string) {
	s.query.ViewMode = mode
	normalizeQuery(&s.query)
}

func (s *Store) FiltersOpen() bool        { return s.filtersOpen }
func (s *Store) ToggleFiltersOpen()       { s.filtersOpen = !s.filtersOpen }
func (s *Store) SetFiltersOpen(open bool) { s.filtersOpen = open }

// ApplyView replaces the whole criteria tuple from a saved view, starting
// back at page 1.
func (s *Store) ApplyView(v models.SavedView) {
	s.query = v.Query
	s.query.Page = 1
	normalizeQuery(&s.query)
	s.ClearSelection()
}

// NextFetch stamps a new outgoing fetch and invalidates all older ones.
func (s *Store) NextFetch() uint64 {
	s.fetchGen++
	return s.fetchGen
}

// ApplyPage installs a fetched page. A completion from a superseded fetch
// is discarded. Meta is replaced wholesale, never patched, and the
// selection belongs to the previous page so it clears.
func (s *Store) ApplyPage(gen uint64, page *models.Page) bool {
	if gen != s.fetchGen {
		return false
	}
	s.items = page.Items
	s.meta = page.Meta
	if page.Facets != nil {
		s.facets = page.Facets
	}
	s.ClearSelection()
	return true
}

func (s *Store) Items() []models.Article                { return s.items }
func (s *Store) Meta() models.Meta                      { return s.meta }
func (s *Store) Facets() map[string][]models.FacetCount { return s.facets }

// Item returns the cached record with the given id, if it is on this page.
func (s *Store) Item(id int64) *models.Article {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

// Selection

func (s *Store) ToggleSelect(id int64) {
	if s.selection[id] {
		delete(s.selection, id)
	} else {
		s.selection[id] = true
	}
}

func (s *Store) SelectAllVisible() {
	for i := range s.items {
		s.selection[s.items[i].ID] = true
	}
}

func (s *Store) ClearSelection() {
	s.selection = make(map[int64]bool)
}

func (s *Store) Selected(id int64) bool { return s.selection[id] }

// SelectedIDs returns the selection in ascending id order.
func (s *Store) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Column visibility

func (s *Store) Columns() map[string]bool { return s.columns }

func (s *Store) SetColumns(cols map[string]bool) {
	if cols == nil {
		return
	}
	s.columns = cols
}

func (s *Store) ToggleColumn(name string) {
	s.columns[name] = !s.columns[name]
}

func (s *Store) ColumnVisible(name string) bool { return s.columns[name] }

// Trash counter shown in the chrome; adjusted optimistically by mutations.

func (s *Store) TrashCount() int64     { return s.trashCount }
func (s *Store) SetTrashCount(n int64) { s.trashCount = n }

func (s *Store) AdjustTrashCount(delta int64) {
	s.trashCount += delta
	if s.trashCount < 0 {
		s.trashCount = 0
	}
}
