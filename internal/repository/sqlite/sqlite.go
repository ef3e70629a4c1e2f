// Package sqlite implements the refresh-history repository on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mgomezch/netifmon/internal/repository"
)

// Repository implements repository.History using SQLite.
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc's driver is not safe for concurrent writes over multiple
	// connections; a single connection is plenty for this write rate.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS refreshes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at DATETIME NOT NULL,
		interfaces INTEGER NOT NULL,
		changed INTEGER NOT NULL,
		diff JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_refreshes_taken_at ON refreshes(taken_at);
	`
	_, err := r.db.Exec(schema)
	return err
}

// RecordRefresh appends one refresh row.
func (r *Repository) RecordRefresh(ctx context.Context, entry repository.Entry) error {
	diff, err := json.Marshal(entry.Diff)
	if err != nil {
		return fmt.Errorf("failed to marshal diff map: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO refreshes (taken_at, interfaces, changed, diff)
		VALUES (?, ?, ?, ?)
	`, entry.TakenAt.UTC().Format(time.RFC3339Nano), entry.Interfaces, entry.Changed, diff)
	if err != nil {
		return fmt.Errorf("failed to insert refresh: %w", err)
	}
	return nil
}

// ListRefreshes returns up to limit entries, newest first.
func (r *Repository) ListRefreshes(ctx context.Context, limit int) ([]repository.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, taken_at, interfaces, changed, diff
		FROM refreshes
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query refreshes: %w", err)
	}
	defer rows.Close()

	var entries []repository.Entry
	for rows.Next() {
		var (
			entry   repository.Entry
			takenAt string
			diff    []byte
		)
		if err := rows.Scan(&entry.ID, &takenAt, &entry.Interfaces, &entry.Changed, &diff); err != nil {
			return nil, fmt.Errorf("failed to scan refresh: %w", err)
		}
		if entry.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt); err != nil {
			return nil, fmt.Errorf("failed to parse taken_at: %w", err)
		}
		if err := json.Unmarshal(diff, &entry.Diff); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diff map: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}
