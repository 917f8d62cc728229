package cache

import "errors"

var (
	// ErrRedisNotAvailable is returned when no Redis address is configured.
	ErrRedisNotAvailable = errors.New("redis not available")

	// ErrLockNotAcquired is returned when the mutex is held elsewhere.
	ErrLockNotAcquired = errors.New("could not acquire distributed lock")
)
