package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets several server replicas agree on who renders a given artifact set,
// so two generations of the same workflow version never write the same files at once.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired or ctx is done.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
