package keylock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/deckflow/internal/logging"
	"github.com/aretw0/deckflow/pkg/ports"
)

// lockEntry holds a one-slot semaphore and the reference count.
type lockEntry struct {
	sem  chan struct{}
	refs int
}

// Manager hands out per-key locks.
// It implements ports.DistributedLocker so it can stand in wherever one is expected.
type Manager struct {
	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.DistributedLocker // Optional distributed locker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker layers a distributed locker under the local locks.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new lock Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST call release(key) once it no longer waits on or holds the entry.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Lock blocks until the lock for key is held or ctx is done.
// The ttl only applies to the distributed locker.
func (m *Manager) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	entry := m.acquire(key)

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(key)
		return nil, ctx.Err()
	}

	unlockLocal := func() {
		<-entry.sem
		m.release(key)
	}

	if m.locker == nil {
		var once sync.Once
		return func(context.Context) error {
			once.Do(unlockLocal)
			return nil
		}, nil
	}

	unlockRemote, err := m.locker.Lock(ctx, key, ttl)
	if err != nil {
		unlockLocal()
		return nil, fmt.Errorf("failed to acquire distributed lock: %w", err)
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			err = unlockRemote(ctx)
			unlockLocal()
		})
		return err
	}, nil
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	unlock, err := m.Lock(ctx, key, ttl)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
				"key", key,
				"err", err,
			)
		}
	}()

	return fn(ctx)
}

// active returns the number of keys currently tracked.
func (m *Manager) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
