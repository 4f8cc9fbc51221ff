package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the dedup mapping in a single SQLite table. The
// table is read once on open and rewritten as a whole on Persist.
type SQLiteStore struct {
	index
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	entries, err := loadEntries(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{
		index: index{entries: entries},
		db:    db,
	}, nil
}

func loadEntries(db *sql.DB) (map[string]Entry, error) {
	rows, err := db.Query(`SELECT link, iso_date FROM seen_items`)
	if err != nil {
		return nil, fmt.Errorf("failed to load store entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]Entry)
	for rows.Next() {
		var link string
		var entry Entry
		if err := rows.Scan(&link, &entry.ISODate); err != nil {
			return nil, fmt.Errorf("failed to scan store entry: %w", err)
		}
		entries[link] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating store entries: %w", err)
	}

	return entries, nil
}

// Persist replaces the table contents in one transaction.
func (s *SQLiteStore) Persist() error {
	entries := s.snapshot()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM seen_items`); err != nil {
		return fmt.Errorf("failed to clear store entries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO seen_items (link, iso_date) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for link, entry := range entries {
		if _, err := stmt.Exec(link, entry.ISODate); err != nil {
			return fmt.Errorf("failed to insert store entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit store entries: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
