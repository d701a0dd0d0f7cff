package keylock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"go.uber.org/zap"

	"facility-kpi-service/internal/sync/core/ports"
)

const keyPrefix = "sync:"

type releaser interface {
	Release(ctx context.Context) error
}

type obtainFunc func(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (releaser, error)

// KeyLocker serialises upserts of one idempotency key across processes.
type KeyLocker struct {
	obtain  obtainFunc
	ttl     time.Duration
	options *redislock.Options
	log     *zap.Logger
}

func NewKeyLocker(client *redislock.Client, ttl time.Duration, retries int, retryBackoff time.Duration, log *zap.Logger) *KeyLocker {
	obtain := func(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (releaser, error) {
		return client.Obtain(ctx, key, ttl, opt)
	}
	return newKeyLocker(obtain, ttl, retries, retryBackoff, log)
}

func newKeyLocker(obtain obtainFunc, ttl time.Duration, retries int, retryBackoff time.Duration, log *zap.Logger) *KeyLocker {
	if log == nil {
		log = zap.NewNop()
	}
	opts := &redislock.Options{}
	if retries > 0 {
		opts.RetryStrategy = redislock.LimitRetry(redislock.LinearBackoff(retryBackoff), retries)
	}
	return &KeyLocker{obtain: obtain, ttl: ttl, options: opts, log: log}
}

var _ ports.KeyLockerPort = (*KeyLocker)(nil)

func (l *KeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := keyPrefix + key

	lock, err := l.obtain(ctx, lockKey, l.ttl, l.options)
	if errors.Is(err, redislock.ErrNotObtained) {
		return func() {}, fmt.Errorf("%w: %s", ports.ErrLockNotObtained, key)
	}
	if err != nil {
		return func() {}, fmt.Errorf("obtain lock %s: %w", lockKey, err)
	}

	return func() {
		// the caller's context may already be done
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn("release lock failed", zap.String("key", lockKey), zap.Error(err))
		}
	}, nil
}
