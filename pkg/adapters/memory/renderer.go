package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/deckflow/pkg/domain"
)

// Renderer implements ports.Renderer by keeping artifacts in memory.
// It is meant for tests and dry runs. Safe for concurrent use.
type Renderer struct {
	mu        sync.Mutex
	artifacts map[string]*domain.Artifact
	failures  map[string]error
}

// NewRenderer creates an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		artifacts: make(map[string]*domain.Artifact),
		failures:  make(map[string]error),
	}
}

// FailOn makes Render return err for the artifact with the given file name.
func (r *Renderer) FailOn(fileName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[fileName] = err
}

// Render records the artifact under outputDir/FileName.
func (r *Renderer) Render(ctx context.Context, outputDir string, artifact *domain.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failures[artifact.FileName]; ok {
		return err
	}

	copied := *artifact
	copied.Slides = slices.Clone(artifact.Slides)
	if artifact.Links != nil {
		copied.Links = maps.Clone(artifact.Links)
	}
	r.artifacts[artifact.FileName] = &copied
	return nil
}

// Artifact returns a rendered artifact by file name.
func (r *Renderer) Artifact(fileName string) (*domain.Artifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.artifacts[fileName]
	return a, ok
}

// FileNames returns the rendered file names, sorted.
func (r *Renderer) FileNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := slices.Collect(maps.Keys(r.artifacts))
	slices.Sort(names)
	return names
}
