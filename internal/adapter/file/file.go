// Package file persists the metric snapshot as a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bodymetrics/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Store reads and writes the snapshot document at path.
type Store struct {
	path string
}

var _ domain.SnapshotRepository = (*Store)(nil)

// New returns a Store for the JSON document at path. The file is created on
// the first Save.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store: path cannot be empty")
	}
	return &Store{path: path}, nil
}

// Path returns the location of the document.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole document. A missing file is an empty snapshot; an
// unreadable or undecodable file is a read failure.
func (s *Store) Load(ctx context.Context) (domain.MetricData, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("file store: [%s] does not exist, starting empty", s.path)
		return domain.MetricData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStorageRead, s.path, err)
	}

	var data domain.MetricData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorageRead, s.path, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: decode %s: document is null", domain.ErrStorageRead, s.path)
	}
	log.Debugf("file store: loaded %d metrics from [%s]", len(data), s.path)
	return data, nil
}

// Save replaces the document. It writes a sibling temp file and renames it
// over the old one, so readers see either the old or the new document.
func (s *Store) Save(ctx context.Context, data domain.MetricData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", domain.ErrStorageWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrStorageWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrStorageWrite, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Warnf("file store: remove temp file %s: %s", tmpName, rmErr)
		}
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %w", domain.ErrStorageWrite, s.path, err)
	}

	log.Debugf("file store: saved %d metrics to [%s]", len(data), s.path)
	return nil
}
