// Package cache decorates a ports.ContentStore with an in-process TTL cache.
//
// Linear generation resolves the same steps once per path, so a shared step
// near the entry of a wide workflow is looked up many times per run. Remote
// stores (Redis) and file-backed stores (Loam) both benefit from caching the
// version lists and slide bodies for the duration of a run.
package cache

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/ports"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 30 * time.Second

// Store implements ports.ContentStore on top of another store.
// Safe for concurrent use.
type Store struct {
	next  ports.ContentStore
	cache *gocache.Cache
}

// New wraps next with a cache whose entries expire after ttl.
func New(next ports.ContentStore, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Versions returns the cached version list, loading it on miss.
func (s *Store) Versions(ctx context.Context, stepID string) ([]int, error) {
	key := "v:" + stepID
	if cached, ok := s.cache.Get(key); ok {
		return slices.Clone(cached.([]int)), nil
	}

	versions, err := s.next.Versions(ctx, stepID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, slices.Clone(versions))
	return versions, nil
}

// Slide returns the cached slide, loading it on miss. Misses are not cached.
func (s *Store) Slide(ctx context.Context, stepID string, version int) (domain.Slide, error) {
	key := "s:" + stepID + "@" + strconv.Itoa(version)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(domain.Slide), nil
	}

	slide, err := s.next.Slide(ctx, stepID, version)
	if err != nil {
		return domain.Slide{}, err
	}
	s.cache.SetDefault(key, slide)
	return slide, nil
}

// Flush drops every cached entry.
func (s *Store) Flush() {
	s.cache.Flush()
}

// Watch implements ports.Watchable when the wrapped store does.
// The cache is flushed before each change is forwarded.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := s.next.(ports.Watchable)
	if !ok {
		return nil, errors.New("wrapped content store does not support watching")
	}

	events, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for id := range events {
			s.Flush()
			select {
			case ch <- id:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
