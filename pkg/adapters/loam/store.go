// Package loam adapts a Loam document repository to ports.ContentStore.
//
// Every markdown (or JSON/YAML) document is one slide version. The step and
// version come from the frontmatter:
//
//	---
//	step: intro
//	version: 2
//	title: Welcome
//	---
//	# Hello
//
// Documents laid out as "<step>/v<version>.md" may omit both keys.
package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/spf13/cast"
)

// Store implements ports.ContentStore over a Loam typed repository.
// The document index is built on first use and rebuilt after Refresh or a Watch event.
type Store struct {
	Repo *loam.TypedRepository[SlideMetadata]

	mu    sync.RWMutex
	index map[string]map[int]domain.Slide
}

// New creates a Loam content store.
func New(repo *loam.TypedRepository[SlideMetadata]) *Store {
	return &Store{Repo: repo}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Store, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric frontmatter as json.Number; read-only mode
	// keeps Loam from sandboxing the directory, deckflow never writes slides.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[SlideMetadata](repo)), nil
}

// Versions returns the versions of a step in ascending order.
func (s *Store) Versions(ctx context.Context, stepID string) ([]int, error) {
	index, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	versions := make([]int, 0, len(index[stepID]))
	for v := range index[stepID] {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions, nil
}

// Slide returns the slide at exactly the given version.
func (s *Store) Slide(ctx context.Context, stepID string, version int) (domain.Slide, error) {
	index, err := s.load(ctx)
	if err != nil {
		return domain.Slide{}, err
	}

	slide, ok := index[stepID][version]
	if !ok {
		return domain.Slide{}, fmt.Errorf("%s@%d: %w", stepID, version, domain.ErrSlideNotFound)
	}
	return slide, nil
}

// Slides returns every slide of the repository, ordered by step and version.
func (s *Store) Slides(ctx context.Context) ([]domain.Slide, error) {
	index, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Slide
	for _, versions := range index {
		for _, slide := range versions {
			out = append(out, slide)
		}
	}
	slices.SortFunc(out, func(a, b domain.Slide) int {
		if c := strings.Compare(a.StepID, b.StepID); c != 0 {
			return c
		}
		return a.Version - b.Version
	})
	return out, nil
}

// Refresh drops the index so the next lookup re-reads the repository.
func (s *Store) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
}

func (s *Store) load(ctx context.Context) (map[string]map[int]domain.Slide, error) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	if index != nil {
		return index, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil {
		return s.index, nil
	}

	index, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.index = index
	return index, nil
}

func (s *Store) build(ctx context.Context) (map[string]map[int]domain.Slide, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	index := make(map[string]map[int]domain.Slide)
	seen := make(map[string]string)

	for _, doc := range docs {
		stepID, version, err := identify(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}

		key := stepID + "@" + strconv.Itoa(version)
		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("collision detected: step '%s' version %d is defined in both '%s' and '%s'", stepID, version, existing, doc.ID)
		}
		seen[key] = doc.ID

		// List only carries metadata; the body needs a Get.
		full, err := s.Repo.Get(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
		}

		if index[stepID] == nil {
			index[stepID] = make(map[int]domain.Slide)
		}
		index[stepID][version] = domain.Slide{
			StepID:  stepID,
			Version: version,
			Title:   doc.Data.Title,
			Body:    strings.TrimSpace(full.Content),
		}
	}
	return index, nil
}

// identify extracts the step and version of a document, preferring frontmatter
// over the "<step>/v<version>" layout.
func identify(docID string, meta SlideMetadata) (string, int, error) {
	id := trimExtension(docID)
	dir, base := path.Split(id)

	stepID := meta.Step
	if stepID == "" {
		stepID = strings.TrimSuffix(dir, "/")
	}
	if stepID == "" {
		return "", 0, fmt.Errorf("document '%s': missing step (set 'step' in frontmatter)", docID)
	}

	var (
		version int
		err     error
	)
	if meta.Version != nil {
		version, err = cast.ToIntE(meta.Version)
	} else {
		version, err = strconv.Atoi(strings.TrimPrefix(base, "v"))
	}
	if err != nil {
		return "", 0, fmt.Errorf("document '%s': invalid version: %w", docID, err)
	}
	if version < 0 {
		return "", 0, fmt.Errorf("document '%s': negative version %d", docID, version)
	}
	return stepID, version, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
// Every change drops the index before the changed document ID is forwarded.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	events, err := s.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				s.Refresh()
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
