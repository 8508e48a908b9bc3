package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
    id              INTEGER NOT NULL,
    field           TEXT    NOT NULL,
    value           TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
    PRIMARY KEY (id, field)
);`

// Field names accepted by [SQLiteStore.Set]. These are the storage keys,
// also exposed to the prefs CLI.
var Fields = map[string]bool{
	"format_template": true,
	"caption":         true,
	"thumb_file_id":   true,
	"title":           true,
	"artist":          true,
	"author":          true,
	"video_title":     true,
	"audio_title":     true,
	"subtitle":        true,
}

// FieldNames returns the accepted field names, sorted, for CLI help text.
func FieldNames() []string {
	names := make([]string, 0, len(Fields))
	for name := range Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SQLiteStore is the [Store] implementation backing the daemon. One row
// per (id, field); unset fields simply have no row.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the preference database at path, creating
// the parent directory and applying the schema.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply prefs schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database file is actually reachable. sql.Open is
// lazy, so diagnostics call this to surface open errors early.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get returns the stored value for (id, field), or "" when unset.
func (s *SQLiteStore) Get(ctx context.Context, id int64, field string) (string, error) {
	if !Fields[field] {
		return "", fmt.Errorf("unknown preference field %q", field)
	}
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM prefs WHERE id = ? AND field = ?`, id, field,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read pref %s for %d: %w", field, id, err)
	}
	return value, nil
}

// Set upserts the value for (id, field). An empty value clears the field.
func (s *SQLiteStore) Set(ctx context.Context, id int64, field, value string) error {
	if !Fields[field] {
		return fmt.Errorf("unknown preference field %q", field)
	}
	if value == "" {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM prefs WHERE id = ? AND field = ?`, id, field)
		if err != nil {
			return fmt.Errorf("clear pref %s for %d: %w", field, id, err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (id, field, value) VALUES (?, ?, ?)
         ON CONFLICT (id, field) DO UPDATE SET
             value = excluded.value,
             updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		id, field, value)
	if err != nil {
		return fmt.Errorf("write pref %s for %d: %w", field, id, err)
	}
	return nil
}

// --- Store interface ---

func (s *SQLiteStore) FormatTemplate(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "format_template")
}

func (s *SQLiteStore) Caption(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "caption")
}

func (s *SQLiteStore) ThumbFileID(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "thumb_file_id")
}

func (s *SQLiteStore) Title(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "title")
}

func (s *SQLiteStore) Artist(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "artist")
}

func (s *SQLiteStore) Author(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "author")
}

func (s *SQLiteStore) VideoTitle(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "video_title")
}

func (s *SQLiteStore) AudioTitle(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "audio_title")
}

func (s *SQLiteStore) Subtitle(ctx context.Context, id int64) (string, error) {
	return s.Get(ctx, id, "subtitle")
}

var _ Store = (*SQLiteStore)(nil)
