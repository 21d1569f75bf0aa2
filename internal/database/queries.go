package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// SaveView appends a saved view to the ordered list, dropping the oldest
// entries once the list exceeds the cap. Names need not be unique; list
// position is the identity.
func (db *DB) SaveView(v *models.SavedView) error {
	query, err := json.Marshal(v.Query)
	if err != nil {
		return fmt.Errorf("marshaling saved view query: %w", err)
	}

	if v.SavedAt.IsZero() {
		v.SavedAt = time.Now()
	}
	_, err = db.Exec(
		"INSERT INTO saved_views (name, saved_at, query) VALUES (?, ?, ?)",
		v.Name, v.SavedAt, string(query),
	)
	if err != nil {
		return fmt.Errorf("inserting saved view: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM saved_views WHERE id NOT IN (
			SELECT id FROM saved_views ORDER BY id DESC LIMIT ?
		)`, models.MaxSavedViews)
	if err != nil {
		return fmt.Errorf("trimming saved views: %w", err)
	}
	return nil
}

// ListViews retrieves all saved views, oldest first.
func (db *DB) ListViews() ([]models.SavedView, error) {
	rows, err := db.Query("SELECT name, saved_at, query FROM saved_views ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying saved views: %w", err)
	}
	defer rows.Close()

	var views []models.SavedView
	for rows.Next() {
		var v models.SavedView
		var query string
		if err := rows.Scan(&v.Name, &v.SavedAt, &query); err != nil {
			return nil, fmt.Errorf("scanning saved view: %w", err)
		}
		if err := json.Unmarshal([]byte(query), &v.Query); err != nil {
			return nil, fmt.Errorf("decoding saved view query: %w", err)
		}
		views = append(views, v)
	}

	return views, rows.Err()
}

// DeleteViewAt removes the saved view at the given list position.
func (db *DB) DeleteViewAt(position int) error {
	var id int64
	err := db.QueryRow(
		"SELECT id FROM saved_views ORDER BY id ASC LIMIT 1 OFFSET ?", position,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNoSuchView
	}
	if err != nil {
		return fmt.Errorf("locating saved view: %w", err)
	}

	if _, err := db.Exec("DELETE FROM saved_views WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting saved view: %w", err)
	}
	return nil
}

// ClearViews removes every saved view.
func (db *DB) ClearViews() error {
	if _, err := db.Exec("DELETE FROM saved_views"); err != nil {
		return fmt.Errorf("clearing saved views: %w", err)
	}
	return nil
}

// GetColumns loads the persisted column visibility map; ok is false when
// nothing has been persisted yet.
func (db *DB) GetColumns() (map[string]bool, bool, error) {
	raw, ok, err := db.getPref("columns")
	if err != nil || !ok {
		return nil, false, err
	}
	var cols map[string]bool
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		return nil, false, fmt.Errorf("decoding column prefs: %w", err)
	}
	return cols, true, nil
}

// SetColumns persists the column visibility map.
func (db *DB) SetColumns(cols map[string]bool) error {
	raw, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("marshaling column prefs: %w", err)
	}
	return db.setPref("columns", string(raw))
}

// GetColorEmphasis loads the global color emphasis preference.
func (db *DB) GetColorEmphasis() (bool, error) {
	raw, ok, err := db.getPref("color_emphasis")
	if err != nil || !ok {
		return true, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true, nil
	}
	return v, nil
}

// SetColorEmphasis persists the global color emphasis preference.
func (db *DB) SetColorEmphasis(enabled bool) error {
	return db.setPref("color_emphasis", strconv.FormatBool(enabled))
}

func (db *DB) getPref(key string) (string, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying pref %s: %w", key, err)
	}
	return value, true, nil
}

func (db *DB) setPref(key, value string) error {
	_, err := db.Exec(
		"INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing pref %s: %w", key, err)
	}
	return nil
}
