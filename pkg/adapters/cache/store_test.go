package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/deckflow/pkg/adapters/cache"
	"github.com/aretw0/deckflow/pkg/adapters/memory"
	"github.com/aretw0/deckflow/pkg/domain"
	contract "github.com/aretw0/deckflow/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*memory.ContentStore
	versionCalls int
	slideCalls   int
}

func (c *countingStore) Versions(ctx context.Context, stepID string) ([]int, error) {
	c.versionCalls++
	return c.ContentStore.Versions(ctx, stepID)
}

func (c *countingStore) Slide(ctx context.Context, stepID string, version int) (domain.Slide, error) {
	c.slideCalls++
	return c.ContentStore.Slide(ctx, stepID, version)
}

func TestCacheStore_Contract(t *testing.T) {
	seed := []domain.Slide{
		{StepID: "A", Version: 1, Body: "a1"},
		{StepID: "A", Version: 4, Body: "a4"},
	}
	inner, err := memory.NewFromSlides(seed...)
	require.NoError(t, err)

	contract.ContentStoreContractTest(t, cache.New(inner, time.Minute), seed)
}

func TestCacheStore_HitsInner_Once(t *testing.T) {
	inner := &countingStore{ContentStore: memory.NewContentStore()}
	inner.Put(domain.Slide{StepID: "A", Version: 1, Body: "a1"})

	s := cache.New(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := s.Versions(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, []int{1}, v)

		slide, err := s.Slide(ctx, "A", 1)
		require.NoError(t, err)
		assert.Equal(t, "a1", slide.Body)
	}
	assert.Equal(t, 1, inner.versionCalls)
	assert.Equal(t, 1, inner.slideCalls)

	s.Flush()
	_, err := s.Versions(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.versionCalls)
}

func TestCacheStore_ReturnsCopies(t *testing.T) {
	inner := memory.NewContentStore()
	inner.Put(domain.Slide{StepID: "A", Version: 1})
	inner.Put(domain.Slide{StepID: "A", Version: 2})

	s := cache.New(inner, 0)
	v, err := s.Versions(context.Background(), "A")
	require.NoError(t, err)
	v[0] = 99

	again, err := s.Versions(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again)
}

type watchingStore struct {
	*countingStore
	events chan string
}

func (w *watchingStore) Watch(ctx context.Context) (<-chan string, error) {
	return w.events, nil
}

func TestCacheStore_WatchFlushes(t *testing.T) {
	inner := &watchingStore{
		countingStore: &countingStore{ContentStore: memory.NewContentStore()},
		events:        make(chan string),
	}
	inner.Put(domain.Slide{StepID: "A", Version: 1, Body: "old"})

	store := cache.New(inner, time.Minute)
	ctx := context.Background()

	slide, err := store.Slide(ctx, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, "old", slide.Body)

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	inner.Put(domain.Slide{StepID: "A", Version: 1, Body: "new"})
	inner.events <- "A/v1"
	assert.Equal(t, "A/v1", <-events)

	slide, err = store.Slide(ctx, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, "new", slide.Body)

	close(inner.events)
	_, open := <-events
	assert.False(t, open)
}

func TestCacheStore_WatchUnsupported(t *testing.T) {
	_, err := cache.New(memory.NewContentStore(), time.Minute).Watch(context.Background())
	assert.Error(t, err)
}
