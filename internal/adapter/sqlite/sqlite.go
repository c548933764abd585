// Package sqlite stores the metric snapshot document in a single SQLite row.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bodymetrics/internal/domain"

	_ "modernc.org/sqlite"
)

const snapshotID = 1

// DB wraps a *sql.DB holding the snapshots table.
type DB struct {
	sql *sql.DB
}

var _ domain.SnapshotRepository = (*DB)(nil)

// Open opens (or creates) a SQLite database at path with WAL journaling and
// ensures the schema exists.
func Open(path string) (*DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	s, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps every statement on the same SQLite handle.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		doc TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or an empty one if no row exists.
func (d *DB) Load(ctx context.Context) (domain.MetricData, error) {
	var doc string
	err := d.sql.QueryRowContext(ctx, `SELECT doc FROM snapshots WHERE id = ?`, snapshotID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MetricData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query snapshot: %w", domain.ErrStorageRead, err)
	}

	var data domain.MetricData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %w", domain.ErrStorageRead, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: decode snapshot: document is null", domain.ErrStorageRead)
	}
	return data, nil
}

// Save upserts the whole document into the single snapshot row.
func (d *DB) Save(ctx context.Context, data domain.MetricData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", domain.ErrStorageWrite, err)
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO snapshots (id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		snapshotID, string(doc), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %w", domain.ErrStorageWrite, err)
	}
	return nil
}
