package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// LockService hands out redsync mutexes. A nil *LockService runs every
// action without locking.
type LockService struct {
	rs *redsync.Redsync
}

// NewLockService returns nil when client is nil.
func NewLockService(client redis.UniversalClient) *LockService {
	if client == nil {
		return nil
	}
	return &LockService{rs: redsync.New(goredis.NewPool(client))}
}

// WithLock runs action while holding the named mutex. It returns
// ErrLockNotAcquired without running action when the mutex stays busy.
func (s *LockService) WithLock(ctx context.Context, name string, expiry time.Duration, action func() error) error {
	if s == nil {
		return action()
	}

	mutex := s.rs.NewMutex(name,
		redsync.WithExpiry(expiry),
		redsync.WithTries(5),
		redsync.WithRetryDelay(50*time.Millisecond),
		redsync.WithDriftFactor(0.01),
	)
	if err := mutex.LockContext(ctx); err != nil {
		slog.Warn("lock not acquired", "lock", name, "error", err)
		return ErrLockNotAcquired
	}

	defer func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release lock", "lock", name, "error", err)
		}
	}()

	return action()
}
