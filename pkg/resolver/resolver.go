// Package resolver picks which content version of a step to render.
//
// A presentation is requested at a version N. Each step is rendered with the
// latest content authored at or before N, so decks evolve by bumping N while
// steps that did not change keep their older content.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/ports"
)

// Resolver applies the nearest-version-not-exceeding policy over a ContentStore.
type Resolver struct {
	store  ports.ContentStore
	logger *slog.Logger
}

// Option defines a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithLogger sets a structured logger for fallback decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver over the given store.
func New(store ports.ContentStore, opts ...Option) *Resolver {
	r := &Resolver{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Resolve returns the greatest available version of stepID that is <= requested.
// It returns a *domain.NoVersionAvailableError when there is none.
func (r *Resolver) Resolve(ctx context.Context, stepID string, requested int) (int, error) {
	available, err := r.store.Versions(ctx, stepID)
	if err != nil {
		return 0, fmt.Errorf("list versions of step %q: %w", stepID, err)
	}

	version, ok := Nearest(available, requested)
	if !ok {
		sorted := slices.Clone(available)
		slices.Sort(sorted)
		return 0, &domain.NoVersionAvailableError{StepID: stepID, Requested: requested, Available: sorted}
	}

	if version != requested {
		r.logger.Debug("version fallback", "step", stepID, "requested", requested, "resolved", version)
	}
	return version, nil
}

// Slide resolves the version of stepID and loads its content.
func (r *Resolver) Slide(ctx context.Context, stepID string, requested int) (domain.Slide, error) {
	version, err := r.Resolve(ctx, stepID, requested)
	if err != nil {
		return domain.Slide{}, err
	}

	slide, err := r.store.Slide(ctx, stepID, version)
	if err != nil {
		return domain.Slide{}, fmt.Errorf("load step %q at version %d: %w", stepID, version, err)
	}
	return slide, nil
}

// Nearest returns the greatest value in available that does not exceed requested.
// available may be in any order and may contain duplicates.
func Nearest(available []int, requested int) (int, bool) {
	best, found := 0, false
	for _, v := range available {
		if v < 0 || v > requested {
			continue
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}
