package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/deckflow/pkg/domain"
)

// ContentStore implements ports.ContentStore in memory.
// Safe for concurrent use.
type ContentStore struct {
	slides map[string]map[int]domain.Slide
	mu     sync.RWMutex
}

// NewContentStore creates an empty in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		slides: make(map[string]map[int]domain.Slide),
	}
}

// NewFromSlides creates a store seeded with the given slides.
// This improves DX for tests.
func NewFromSlides(slides ...domain.Slide) (*ContentStore, error) {
	s := NewContentStore()
	for _, slide := range slides {
		if slide.StepID == "" {
			return nil, fmt.Errorf("slide missing step id")
		}
		if slide.Version < 0 {
			return nil, fmt.Errorf("slide %s has negative version %d", slide.StepID, slide.Version)
		}
		s.Put(slide)
	}
	return s, nil
}

// Put stores a slide, replacing any content at the same step and version.
func (s *ContentStore) Put(slide domain.Slide) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, ok := s.slides[slide.StepID]
	if !ok {
		versions = make(map[int]domain.Slide)
		s.slides[slide.StepID] = versions
	}
	versions[slide.Version] = slide
}

// Versions returns the versions of a step in ascending order.
func (s *ContentStore) Versions(ctx context.Context, stepID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := s.slides[stepID]
	out := make([]int, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}

// Slide returns the slide at exactly the given version.
func (s *ContentStore) Slide(ctx context.Context, stepID string, version int) (domain.Slide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slide, ok := s.slides[stepID][version]
	if !ok {
		return domain.Slide{}, fmt.Errorf("%s@%d: %w", stepID, version, domain.ErrSlideNotFound)
	}
	return slide, nil
}
