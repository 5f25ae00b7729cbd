// Package registry maps renderer names to their constructors so front ends
// can select an output format by configuration.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/deckflow/pkg/adapters/html"
	"github.com/aretw0/deckflow/pkg/adapters/markdown"
	"github.com/aretw0/deckflow/pkg/ports"
)

// Factory builds a renderer.
type Factory func() (ports.Renderer, error)

// Registry manages the available renderers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Default returns a registry holding the built-in "html" and "markdown" renderers.
func Default() *Registry {
	r := NewRegistry()
	r.Register("html", func() (ports.Renderer, error) { return html.New(), nil })
	r.Register("markdown", func() (ports.Renderer, error) { return markdown.New(), nil })
	return r
}

// Register adds a renderer to the registry.
// If a renderer with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// New looks up a renderer by name and builds it.
// Returns an error if the renderer is not found.
func (r *Registry) New(name string) (ports.Renderer, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("renderer not found: %s", name)
	}

	return fn()
}

// Names returns the registered renderer names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
