package settings

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/internal/database"
	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

func testSettings(t *testing.T) *Settings {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := Load(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("loading settings: %v", err)
	}
	return s
}

func TestFreshDefaults(t *testing.T) {
	s := testSettings(t)

	if !s.ColorEmphasis() {
		t.Error("color emphasis should default to enabled")
	}
	if s.Columns() != nil {
		t.Errorf("columns = %v, want nil until customized", s.Columns())
	}
	if len(s.Views()) != 0 {
		t.Errorf("views = %v, want empty", s.Views())
	}
}

func TestSubscribersNotifiedOnEveryChange(t *testing.T) {
	s := testSettings(t)

	var fired int
	s.Subscribe(func() { fired++ })

	s.SetColorEmphasis(false)
	s.SetColumns(map[string]bool{"title": true})
	s.SaveView("inbox", models.DefaultQuery())
	s.DeleteViewAt(0)
	s.ClearViews()

	if fired != 5 {
		t.Errorf("subscriber fired %d times, want 5", fired)
	}
}

func TestSaveViewPositionIdentity(t *testing.T) {
	s := testSettings(t)

	s.SaveView("inbox", models.DefaultQuery())
	s.SaveView("inbox", models.DefaultQuery())
	s.SaveView("archive", models.DefaultQuery())

	views := s.Views()
	if len(views) != 3 {
		t.Fatalf("got %d views, want 3", len(views))
	}

	// Deleting by position removes exactly one of the duplicates.
	s.DeleteViewAt(0)
	views = s.Views()
	if len(views) != 2 || views[0].Name != "inbox" || views[1].Name != "archive" {
		t.Errorf("views = %+v, want [inbox archive]", views)
	}

	// Out-of-range positions are ignored.
	s.DeleteViewAt(9)
	if len(s.Views()) != 2 {
		t.Errorf("out-of-range delete changed the list: %+v", s.Views())
	}
}

func TestChangesSurviveReload(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	s, err := Load(db, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	s.SetColorEmphasis(false)
	s.SetColumns(map[string]bool{"title": true, "rating": true})
	q := models.DefaultQuery()
	q.Search = "golang"
	s.SaveView("searches", q)

	again, err := Load(db, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if again.ColorEmphasis() {
		t.Error("color emphasis did not persist")
	}
	if cols := again.Columns(); cols == nil || !cols["rating"] {
		t.Errorf("columns = %v", cols)
	}
	views := again.Views()
	if len(views) != 1 || views[0].Query.Search != "golang" {
		t.Errorf("views = %+v", views)
	}
}
