// Package settings is the process-wide preferences object. It replaces
// ambient global state: components receive it explicitly and subscribe for
// change broadcasts. Writes go through to the local database; a failed
// write is logged and otherwise swallowed, since losing a preference must
// never break the main workflow.
package settings

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/internal/database"
	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

type Settings struct {
	db  *database.DB
	log zerolog.Logger

	colorEmphasis bool
	columns       map[string]bool
	views         []models.SavedView

	subscribers []func()
}

// Load reads all persisted preferences. Nothing persisted yet is not an
// error; defaults apply.
func Load(db *database.DB, log zerolog.Logger) (*Settings, error) {
	s := &Settings{db: db, log: log, colorEmphasis: true}

	emphasis, err := db.GetColorEmphasis()
	if err != nil {
		return nil, err
	}
	s.colorEmphasis = emphasis

	cols, ok, err := db.GetColumns()
	if err != nil {
		return nil, err
	}
	if ok {
		s.columns = cols
	}

	views, err := db.ListViews()
	if err != nil {
		return nil, err
	}
	s.views = views

	return s, nil
}

// Subscribe registers a callback invoked after every settings change.
func (s *Settings) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Settings) notify() {
	for _, fn := range s.subscribers {
		fn()
	}
}

// ColorEmphasis is the global flag all list renderers honor for category
// color accents.
func (s *Settings) ColorEmphasis() bool { return s.colorEmphasis }

func (s *Settings) SetColorEmphasis(enabled bool) {
	s.colorEmphasis = enabled
	if err := s.db.SetColorEmphasis(enabled); err != nil {
		s.log.Warn().Err(err).Msg("persisting color emphasis failed")
	}
	s.notify()
}

// Columns returns the persisted column visibility map, or nil when the
// user never customized it.
func (s *Settings) Columns() map[string]bool { return s.columns }

func (s *Settings) SetColumns(cols map[string]bool) {
	s.columns = cols
	if err := s.db.SetColumns(cols); err != nil {
		s.log.Warn().Err(err).Msg("persisting column visibility failed")
	}
	s.notify()
}

// Views returns the saved views, oldest first.
func (s *Settings) Views() []models.SavedView { return s.views }

// SaveView snapshots the given criteria under a name. The persisted list
// is capped; the in-memory copy is refreshed from the database so both
// agree on what got trimmed.
func (s *Settings) SaveView(name string, q models.Query) {
	v := models.SavedView{Name: name, SavedAt: time.Now(), Query: q}
	if err := s.db.SaveView(&v); err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("persisting saved view failed")
		s.views = append(s.views, v)
		if len(s.views) > models.MaxSavedViews {
			s.views = s.views[len(s.views)-models.MaxSavedViews:]
		}
		s.notify()
		return
	}

	views, err := s.db.ListViews()
	if err != nil {
		s.log.Warn().Err(err).Msg("reloading saved views failed")
	} else {
		s.views = views
	}
	s.notify()
}

// DeleteViewAt removes the view at the given list position.
func (s *Settings) DeleteViewAt(position int) {
	if position < 0 || position >= len(s.views) {
		return
	}
	if err := s.db.DeleteViewAt(position); err != nil {
		s.log.Warn().Err(err).Int("position", position).Msg("deleting saved view failed")
	}
	s.views = append(s.views[:position], s.views[position+1:]...)
	s.notify()
}

// ClearViews resets the saved view list.
func (s *Settings) ClearViews() {
	if err := s.db.ClearViews(); err != nil {
		s.log.Warn().Err(err).Msg("clearing saved views failed")
	}
	s.views = nil
	s.notify()
}
