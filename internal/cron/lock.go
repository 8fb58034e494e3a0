package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLockTTL = 5 * time.Minute

// Locker hands out exclusive run slots for a named job.
type Locker interface {
	TryLock(ctx context.Context, name string) (release func(context.Context) error, ok bool, err error)
}

// lockStore is satisfied by pkg/redis.Client.
type lockStore interface {
	AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

// RedisLocker claims job locks with SETNX so only one cron-worker replica runs
// a job at a time. The TTL bounds how long a crashed holder blocks others.
type RedisLocker struct {
	store lockStore
	scope string
	ttl   time.Duration
}

// NewRedisLocker constructs a Redis-backed locker. Scope separates
// environments sharing one Redis.
func NewRedisLocker(store lockStore, scope string, ttl time.Duration) (*RedisLocker, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{store: store, scope: scope, ttl: ttl}, nil
}

func (l *RedisLocker) TryLock(ctx context.Context, name string) (func(context.Context) error, bool, error) {
	if name == "" {
		return nil, false, errors.New("lock name is required")
	}
	owner := uuid.NewString()
	key := "cron:" + name
	if l.scope != "" {
		key = "cron:" + l.scope + ":" + name
	}
	ok, err := l.store.AcquireLock(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		return l.store.ReleaseLock(ctx, key, owner)
	}, true, nil
}
