// Package postgres implements the snapshot repository using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bodymetrics/internal/domain"

	_ "github.com/lib/pq"
)

const snapshotID = 1

// DB wraps a *sql.DB and implements domain.SnapshotRepository.
type DB struct {
	sql *sql.DB
}

var _ domain.SnapshotRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

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
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS metric_snapshots (id SMALLINT PRIMARY KEY CHECK (id = 1), doc JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Load returns the stored snapshot, or an empty one if nothing was saved.
func (d *DB) Load(ctx context.Context) (domain.MetricData, error) {
	var doc []byte
	err := d.sql.QueryRowContext(ctx, "SELECT doc FROM metric_snapshots WHERE id = $1;", snapshotID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MetricData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query snapshot: %w", domain.ErrStorageRead, err)
	}

	var data domain.MetricData
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %w", domain.ErrStorageRead, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: decode snapshot: document is null", domain.ErrStorageRead)
	}
	return data, nil
}

// Save overwrites the snapshot row with the whole document.
func (d *DB) Save(ctx context.Context, data domain.MetricData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", domain.ErrStorageWrite, err)
	}
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO metric_snapshots (id, doc, updated_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at;",
		snapshotID, string(doc), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %w", domain.ErrStorageWrite, err)
	}
	return nil
}
