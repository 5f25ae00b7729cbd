package dsl

import (
	"fmt"

	"github.com/aretw0/deckflow/pkg/domain"
)

// Builder manages the workflow graph construction.
type Builder struct {
	name  string
	order []string
	steps map[string]*StepBuilder
	roots []string
}

// New creates a new graph builder for the named workflow.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		steps: make(map[string]*StepBuilder),
	}
}

// Add creates a new step in the graph.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step:    domain.Step{ID: id},
		builder: b,
	}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Entry designates explicit entry steps, overriding the "no incoming edge" rule.
func (b *Builder) Entry(ids ...string) *Builder {
	b.roots = append(b.roots, ids...)
	return b
}

// Build validates and compiles the graph.
func (b *Builder) Build() (*domain.Graph, error) {
	steps := make([]domain.Step, 0, len(b.order))
	for _, id := range b.order {
		steps = append(steps, b.steps[id].step)
	}

	g, err := domain.NewGraph(b.name, steps, b.roots...)
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for tests and examples.
func (b *Builder) MustBuild() *domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
