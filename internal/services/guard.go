package services

import (
	"context"
	"sync"
	"time"

	"ems_portal/internal/storage"
)

// SubmissionGuard rejects a second submission of the same operation from one
// browser context while the first is still running.
type SubmissionGuard interface {
	// Acquire returns ErrSubmissionInFlight when key is already held
	Acquire(ctx context.Context, key string) (release func(), err error)
}

func guardKey(ctx context.Context, op string) string {
	return "ems_guard:" + op + ":" + storage.ScopeFrom(ctx)
}

// MemoryGuard holds keys in process memory
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.held[key]; busy {
		return nil, ErrSubmissionInFlight
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

// Locker is the subset of storage.RedisKV used for guard keys
type Locker interface {
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// RedisGuard shares guard keys between server instances. Keys expire after
// ttl so a crashed request cannot hold one forever.
type RedisGuard struct {
	locker Locker
	ttl    time.Duration
}

func NewRedisGuard(locker Locker, ttl time.Duration) *RedisGuard {
	return &RedisGuard{locker: locker, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	ok, err := g.locker.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	return func() {
		// The request context may already be cancelled here.
		_ = g.locker.Delete(context.Background(), key)
	}, nil
}
