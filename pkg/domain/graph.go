package domain

import (
	"fmt"
)

// Graph is the immutable step model of a workflow.
// It is built once by NewGraph and only exposes copies afterwards,
// so it is safe to share between concurrent generations.
type Graph struct {
	name  string
	order []string
	steps map[string]Step
	roots []string
}

// NewGraph validates the steps and builds a Graph.
// When roots is empty, entry steps are the steps without incoming edges.
func NewGraph(name string, steps []Step, roots ...string) (*Graph, error) {
	if name == "" {
		return nil, &GraphError{Workflow: name, Reason: "workflow name is empty"}
	}

	g := &Graph{
		name:  name,
		order: make([]string, 0, len(steps)),
		steps: make(map[string]Step, len(steps)),
	}

	for _, s := range steps {
		if s.ID == "" {
			return nil, &GraphError{Workflow: name, Reason: "step with empty id"}
		}
		if _, dup := g.steps[s.ID]; dup {
			return nil, &GraphError{Workflow: name, StepID: s.ID, Reason: "duplicate step id"}
		}
		g.steps[s.ID] = s.clone()
		g.order = append(g.order, s.ID)
	}

	incoming := make(map[string]int, len(g.steps))
	for _, id := range g.order {
		for _, next := range g.steps[id].Next {
			if _, ok := g.steps[next]; !ok {
				return nil, &GraphError{
					Workflow: name,
					StepID:   id,
					Reason:   fmt.Sprintf("successor %q does not exist", next),
				}
			}
			incoming[next]++
		}
	}

	if len(roots) > 0 {
		for _, r := range roots {
			if _, ok := g.steps[r]; !ok {
				return nil, &GraphError{Workflow: name, StepID: r, Reason: "entry step does not exist"}
			}
		}
		g.roots = append([]string(nil), roots...)
	} else {
		for _, id := range g.order {
			if incoming[id] == 0 {
				g.roots = append(g.roots, id)
			}
		}
	}

	if len(g.roots) == 0 {
		return nil, &GraphError{Workflow: name, Reason: "no entry step"}
	}

	return g, nil
}

// Name returns the workflow name.
func (g *Graph) Name() string {
	return g.name
}

// Len returns the number of steps.
func (g *Graph) Len() int {
	return len(g.order)
}

// Step returns the step with the given ID.
func (g *Graph) Step(id string) (Step, bool) {
	s, ok := g.steps[id]
	if !ok {
		return Step{}, false
	}
	return s.clone(), true
}

// Steps returns all steps in definition order.
func (g *Graph) Steps() []Step {
	out := make([]Step, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.steps[id].clone())
	}
	return out
}

// StepIDs returns all step IDs in definition order.
func (g *Graph) StepIDs() []string {
	return append([]string(nil), g.order...)
}

// EntrySteps returns the designated roots, or the steps without incoming edges.
func (g *Graph) EntrySteps() []Step {
	out := make([]Step, 0, len(g.roots))
	for _, id := range g.roots {
		out = append(out, g.steps[id].clone())
	}
	return out
}

// Links returns the ordered successor list of every step.
// Terminal steps map to an empty, non-nil slice.
func (g *Graph) Links() map[string][]string {
	links := make(map[string][]string, len(g.order))
	for _, id := range g.order {
		next := make([]string, len(g.steps[id].Next))
		copy(next, g.steps[id].Next)
		links[id] = next
	}
	return links
}
