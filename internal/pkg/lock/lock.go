// Package lock provides per-key mutual exclusion across service instances.
//
// The MFA lifecycle operations are read-modify-write sequences on one
// credential row; two concurrent enables (or two consumptions of the same
// backup code) must not both succeed. Callers acquire the account's lock for
// the duration of the operation and release it on every exit path.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the lock is held by someone else after the
// bounded wait elapses. Callers should fail the operation, not spin.
var ErrNotAcquired = errors.New("lock: not acquired")

// Locker acquires and releases named locks.
type Locker interface {
	// Acquire takes the lock for key, waiting a bounded amount of time.
	// It returns an opaque owner token that must be passed to Release.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Release frees the lock if and only if token still owns it.
	Release(ctx context.Context, key, token string) error
}
