package main

import (
	"context"
	"fmt"
	"time"

	"bodymetrics/internal/adapter/file"
	"bodymetrics/internal/adapter/memory"
	"bodymetrics/internal/adapter/postgres"
	redisstore "bodymetrics/internal/adapter/redis"
	"bodymetrics/internal/adapter/sqlite"
	"bodymetrics/internal/config"
	"bodymetrics/internal/domain"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

func nopClose() error { return nil }

// openStore builds the snapshot repository selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config) (domain.SnapshotRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warnln("using in-memory store, data is lost on exit")
		return memory.New(), nopClose, nil

	case config.DriverFile:
		s, err := file.New(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Debugf("using file store: %s", s.Path())
		return s, nopClose, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, db.Close, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, db.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return redisstore.New(client, cfg.RedisKey), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %q", cfg.StoreDriver)
	}
}
