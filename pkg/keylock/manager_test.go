package keylock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/deckflow/pkg/adapters/redis"
	"github.com/aretw0/deckflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("generate:wf-%d", i)
		require.NoError(t, mgr.WithLock(ctx, key, time.Second, func(context.Context) error { return nil }))
	}

	assert.Zero(t, mgr.active(), "locks must not leak after release")
}

func TestManager_SerializesSameKey(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.WithLock(ctx, "generate:Onboarding", time.Second, func(context.Context) error {
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Zero(t, mgr.active())
}

func TestManager_DifferentKeysDoNotBlock(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	unlockA, err := mgr.Lock(ctx, "a", time.Second)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	unlockB, err := mgr.Lock(ctx, "b", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}

func TestManager_ContextCanceledWhileWaiting(t *testing.T) {
	mgr := NewManager()

	unlock, err := mgr.Lock(context.Background(), "k", time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = mgr.Lock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(context.Background()))
	assert.Zero(t, mgr.active())
}

func TestManager_UnlockTwiceIsSafe(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	unlock, err := mgr.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))

	assert.Zero(t, mgr.active())
}

func TestManager_WithRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redis.New(mr.Addr(), "", 0)
	mgr := NewManager(WithLocker(redis.NewLocker(store.Client(), "deckflow:")))
	ctx := context.Background()

	err := mgr.WithLock(ctx, "generate:Onboarding", time.Minute, func(context.Context) error {
		assert.True(t, mr.Exists("deckflow:lock:generate:Onboarding"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("deckflow:lock:generate:Onboarding"))
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("redis down")
}

func TestManager_DistributedFailureReleasesLocal(t *testing.T) {
	mgr := NewManager(WithLocker(failingLocker{}))

	_, err := mgr.Lock(context.Background(), "k", time.Second)
	assert.ErrorContains(t, err, "redis down")
	assert.Zero(t, mgr.active())
}

func TestManager_PropagatesFnError(t *testing.T) {
	mgr := NewManager()
	sentinel := errors.New("boom")

	err := mgr.WithLock(context.Background(), "k", time.Second, func(context.Context) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}
