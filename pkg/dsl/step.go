package dsl

import "github.com/aretw0/deckflow/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.Step
	builder *Builder
}

// Title sets the human label of the step.
func (s *StepBuilder) Title(title string) *StepBuilder {
	s.step.Title = title
	return s
}

// Go appends successors, in order. The first successor wins ties in path ordering.
func (s *StepBuilder) Go(targets ...string) *StepBuilder {
	s.step.Next = append(s.step.Next, targets...)
	return s
}

// Terminal marks the step as the end of a path.
func (s *StepBuilder) Terminal() *StepBuilder {
	s.step.Next = nil
	return s
}

// Add is a shortcut to Builder.Add, allowing chained definitions.
func (s *StepBuilder) Add(id string) *StepBuilder {
	return s.builder.Add(id)
}

// Build returns the underlying domain.Step.
// This is primarily used by the Builder, but exposed for advanced usage.
func (s *StepBuilder) Build() domain.Step {
	return s.step
}
