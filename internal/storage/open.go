package storage

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"ems_portal/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the KV backend selected by cfg.StoreBackend. The returned
// closer releases backend connections.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (KV, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return NewMemoryKV(), nopCloser{}, nil
	case config.BackendRedis:
		kv, err := NewRedisKV(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	case config.BackendPostgres:
		db, err := InitDB(cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		kv, err := NewGormKV(db, log)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	default:
		kv, err := NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", cfg.DataDir).Msg("Using file store")
		return kv, nopCloser{}, nil
	}
}
