package console

import (
	"testing"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

func pageOf(ids ...int64) *models.Page {
	items := make([]models.Article, len(ids))
	for i, id := range ids {
		items[i] = models.Article{ID: id, Title: "Article", Status: models.StatusPublished}
	}
	return &models.Page{
		Items: items,
		Meta: models.Meta{
			CurrentPage: 1,
			LastPage:    1,
			PerPage:     models.DefaultPerPage,
			Total:       int64(len(ids)),
		},
	}
}

func TestSearchChangeResetsPage(t *testing.T) {
	store := NewStore(models.DefaultQuery())
	store.ApplyPage(store.NextFetch(), &models.Page{Meta: models.Meta{CurrentPage: 3, LastPage: 9}})
	store.SetPage(3)

	if !store.SetSearch("laravel") {
		t.Fatal("SetSearch reported no change")
	}
	if store.Query().Page != 1 {
		t.Errorf("page = %d after search change, want 1", store.Query().Page)
	}
}

func TestFilterAndSortChangesResetPage(t *testing.T) {
	store := NewStore(models.DefaultQuery())
	store.ApplyPage(store.NextFetch(), &models.Page{Meta: models.Meta{CurrentPage: 1, LastPage: 9}})

	store.SetPage(4)
	f := store.Query().Filters
	f.Featured = true
	store.SetFilters(f)
	if store.Query().Page != 1 {
		t.Errorf("page = %d after filter change, want 1", store.Query().Page)
	}

	store.SetPage(4)
	store.SetSort("title", "asc")
	if store.Query().Page != 1 {
		t.Errorf("page = %d after sort change, want 1", store.Query().Page)
	}

	// Same sort again must not churn the page.
	store.SetPage(4)
	store.SetSort("title", "asc")
	if store.Query().Page != 4 {
		t.Errorf("page = %d after no-op sort, want 4", store.Query().Page)
	}
}

func TestDebouncedSearchCommitsOnlyNewestGeneration(t *testing.T) {
	store := NewStore(models.DefaultQuery())

	gen1 := store.BeginSearch("g")
	gen2 := store.BeginSearch("go")
	gen3 := store.BeginSearch("gol")

	if store.CommitSearch(gen1) {
		t.Error("stale generation 1 committed")
	}
	if store.CommitSearch(gen2) {
		t.Error("stale generation 2 committed")
	}
	if !store.CommitSearch(gen3) {
		t.Error("newest generation did not commit")
	}
	if got := store.Query().Search; got != "gol" {
		t.Errorf("search = %q, want %q", got, "gol")
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	store := NewStore(models.DefaultQuery())

	oldGen := store.NextFetch()
	newGen := store.NextFetch()

	if !store.ApplyPage(newGen, pageOf(10, 11)) {
		t.Fatal("newest fetch was rejected")
	}
	// The slow older response lands afterwards and must not win.
	if store.ApplyPage(oldGen, pageOf(1, 2, 3)) {
		t.Fatal("stale fetch overwrote newer state")
	}

	items := store.Items()
	if len(items) != 2 || items[0].ID != 10 {
		t.Errorf("items = %+v, want the newer page", items)
	}
}

func TestSelectionIsPageLocal(t *testing.T) {
	store := NewStore(models.DefaultQuery())
	store.ApplyPage(store.NextFetch(), pageOf(1, 2, 3))

	store.ToggleSelect(1)
	store.ToggleSelect(3)
	if got := store.SelectedIDs(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("SelectedIDs = %v, want [1 3]", got)
	}

	// Navigating to a new page clears the selection.
	store.ApplyPage(store.NextFetch(), pageOf(4, 5))
	if got := store.SelectedIDs(); len(got) != 0 {
		t.Errorf("SelectedIDs after navigation = %v, want empty", got)
	}
}

func TestApplyViewReplacesTuple(t *testing.T) {
	store := NewStore(models.DefaultQuery())
	store.SetPage(1)

	saved := models.SavedView{
		Name: "trash bin",
		Query: models.Query{
			Filters:  models.Filters{Status: models.StatusArchived, RatingMax: models.RatingMax},
			SortBy:   "title",
			SortDir:  "asc",
			Page:     7,
			PerPage:  48,
			ViewMode: models.ViewCards,
		},
	}
	store.ApplyView(saved)

	q := store.Query()
	if q.Filters.Status != models.StatusArchived || q.SortBy != "title" || q.PerPage != 48 {
		t.Errorf("applied query = %+v, want the saved tuple", q)
	}
	if q.Page != 1 {
		t.Errorf("page = %d after applying view, want 1", q.Page)
	}
}

func TestNormalizeQueryRatingInvariant(t *testing.T) {
	q := models.DefaultQuery()
	q.Filters.RatingMin = 4.5
	q.Filters.RatingMax = 2

	store := NewStore(q)
	f := store.Query().Filters
	if f.RatingMin > f.RatingMax {
		t.Errorf("rating bounds %v..%v, want min <= max", f.RatingMin, f.RatingMax)
	}
}
