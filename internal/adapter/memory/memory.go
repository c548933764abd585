// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"bodymetrics/internal/domain"
)

// DB keeps the encoded snapshot document in memory. Storing the encoded form
// means callers never share state with what was saved.
type DB struct {
	mu  sync.Mutex
	doc []byte
}

// New creates a new, empty in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.SnapshotRepository = (*DB)(nil)

// Load decodes the stored document, or returns an empty snapshot if nothing
// has been saved yet.
func (db *DB) Load(ctx context.Context) (domain.MetricData, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.doc == nil {
		return domain.MetricData{}, nil
	}
	var data domain.MetricData
	if err := json.Unmarshal(db.doc, &data); err != nil {
		return nil, fmt.Errorf("%w: decode memory snapshot: %w", domain.ErrStorageRead, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: decode memory snapshot: document is null", domain.ErrStorageRead)
	}
	return data, nil
}

// Save replaces the stored document.
func (db *DB) Save(ctx context.Context, data domain.MetricData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: encode memory snapshot: %w", domain.ErrStorageWrite, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.doc = doc
	return nil
}

// Raw returns a copy of the stored document.
func (db *DB) Raw() []byte {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.doc == nil {
		return nil
	}
	out := make([]byte, len(db.doc))
	copy(out, db.doc)
	return out
}
