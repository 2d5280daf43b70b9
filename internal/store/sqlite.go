package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"followdeck/internal/model"
)

// SQLiteStore implements Store on a single SQLite database with one
// document table: (collection, record_id) -> JSON field bag.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if necessary) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			record_id  TEXT NOT NULL,
			fields     TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (collection, record_id)
		);

		CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReadAll implements Store.
func (s *SQLiteStore) ReadAll(ctx context.Context, collection string) (map[string]model.FieldBag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, fields FROM records WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w", collection, err)
	}
	defer rows.Close()

	records := make(map[string]model.FieldBag)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}

		var bag model.FieldBag
		if err := json.Unmarshal([]byte(raw), &bag); err != nil {
			// Malformed rows are skipped, not fatal
			continue
		}
		records[id] = bag
	}

	return records, rows.Err()
}

// CreateOrReplace implements Store.
func (s *SQLiteStore) CreateOrReplace(ctx context.Context, collection, id string, fields model.FieldBag) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode record %s/%s: %w", collection, id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (collection, record_id, fields)
		VALUES (?, ?, ?)
		ON CONFLICT (collection, record_id) DO UPDATE SET fields = excluded.fields
	`, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("write record %s/%s: %w", collection, id, err)
	}
	return nil
}

// PartialUpdate implements Store. The merge happens inside a transaction
// so concurrent writers never interleave half-merged bags.
func (s *SQLiteStore) PartialUpdate(ctx context.Context, collection, id string, changed model.FieldBag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE collection = ? AND record_id = ?`,
		collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update record %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update record %s/%s: %w", collection, id, err)
	}

	var bag model.FieldBag
	if err := json.Unmarshal([]byte(raw), &bag); err != nil {
		bag = model.FieldBag{}
	}
	for k, v := range changed {
		bag[k] = v
	}

	merged, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("encode record %s/%s: %w", collection, id, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE records SET fields = ? WHERE collection = ? AND record_id = ?`,
		string(merged), collection, id)
	if err != nil {
		return fmt.Errorf("update record %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND record_id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete record %s/%s: %w", collection, id, err)
	}
	return nil
}

// DeleteCollection implements Store.
func (s *SQLiteStore) DeleteCollection(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ?`, collection)
	if err != nil {
		return fmt.Errorf("delete collection %q: %w", collection, err)
	}
	return nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count collection %q: %w", collection, err)
	}
	return n, nil
}

// Collections implements Store.
func (s *SQLiteStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM records ORDER BY collection`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DefaultStorePath returns the default database path:
// ~/.config/followdeck/followdeck.db
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "followdeck", "followdeck.db"), nil
}
