// Package redis stores the metric snapshot document under a single Redis key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bodymetrics/internal/domain"

	"github.com/go-redis/redis/v8"
)

// DefaultKey is the key the snapshot document is stored under.
const DefaultKey = "bodymetrics:snapshot"

// Store persists the snapshot with GET/SET on one key.
type Store struct {
	client *redis.Client
	key    string
}

var _ domain.SnapshotRepository = (*Store)(nil)

// New returns a Store using client. An empty key falls back to DefaultKey.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Load reads the document. A missing key is an empty snapshot.
func (s *Store) Load(ctx context.Context) (domain.MetricData, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.MetricData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrStorageRead, s.key, err)
	}

	var data domain.MetricData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorageRead, s.key, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: decode %s: document is null", domain.ErrStorageRead, s.key)
	}
	return data, nil
}

// Save overwrites the document with no expiration.
func (s *Store) Save(ctx context.Context, data domain.MetricData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", domain.ErrStorageWrite, err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", domain.ErrStorageWrite, s.key, err)
	}
	return nil
}
