package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/deckflow/pkg/adapters/redis"
	"github.com/aretw0/deckflow/pkg/domain"
	contract "github.com/aretw0/deckflow/pkg/ports/tests"
	"github.com/aretw0/deckflow/pkg/resolver"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()

	seed := []domain.Slide{
		{StepID: "intro", Version: 10, Title: "Intro", Body: "# v10"},
		{StepID: "intro", Version: 2, Title: "Intro", Body: "# v2"},
		{StepID: "end", Version: 0, Body: "bye"},
	}
	for _, s := range seed {
		require.NoError(t, store.Put(ctx, s))
	}

	contract.ContentStoreContractTest(t, store, seed)
}

func TestRedisStore_Keys(t *testing.T) {
	mr, store := newStore(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.Slide{StepID: "A", Version: 3, Body: "x"}))

	assert.True(t, mr.Exists("test:versions:A"))
	assert.True(t, mr.Exists("test:slide:A:3"))
	assert.Equal(t, "x", mr.HGet("test:slide:A:3", "body"))
}

func TestRedisStore_PutInvalid(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()

	assert.Error(t, store.Put(ctx, domain.Slide{Version: 1}))
	assert.Error(t, store.Put(ctx, domain.Slide{StepID: "A", Version: -2}))
}

func TestRedisStore_Delete(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.Slide{StepID: "A", Version: 1}))
	require.NoError(t, store.Put(ctx, domain.Slide{StepID: "A", Version: 2}))
	require.NoError(t, store.Delete(ctx, "A", 2))

	versions, err := store.Versions(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)

	_, err = store.Slide(ctx, "A", 2)
	assert.ErrorIs(t, err, domain.ErrSlideNotFound)
}

func TestRedisStore_WithResolver(t *testing.T) {
	_, store := newStore(t)
	ctx := context.Background()

	for _, v := range []int{1, 3, 5} {
		require.NoError(t, store.Put(ctx, domain.Slide{StepID: "A", Version: v}))
	}

	v, err := resolver.New(store).Resolve(ctx, "A", 4)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
