package validator

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/ports"
)

// Report lists the warnings found for a workflow. None of them stop generation.
type Report struct {
	Workflow string `json:"workflow"`

	// Unreachable steps cannot be reached from any entry step.
	Unreachable []string `json:"unreachable,omitempty"`

	// NoExit steps cannot reach any terminal step, so no path runs through them.
	NoExit []string `json:"no_exit,omitempty"`

	// MissingContent steps have no authored slide version at all.
	MissingContent []string `json:"missing_content,omitempty"`
}

// OK reports whether the report holds no warnings.
func (r *Report) OK() bool {
	return len(r.Unreachable) == 0 && len(r.NoExit) == 0 && len(r.MissingContent) == 0
}

// Warnings flattens the report into human-readable lines.
func (r *Report) Warnings() []string {
	var out []string
	for _, id := range r.Unreachable {
		out = append(out, fmt.Sprintf("step '%s' is unreachable from the entry steps", id))
	}
	for _, id := range r.NoExit {
		out = append(out, fmt.Sprintf("step '%s' cannot reach a terminal step", id))
	}
	for _, id := range r.MissingContent {
		out = append(out, fmt.Sprintf("step '%s' has no slide content", id))
	}
	return out
}

// ValidateGraph crawls the workflow from its entry steps and checks content
// coverage in store. A nil store skips the content check.
// Only store failures are returned as errors.
func ValidateGraph(ctx context.Context, g *domain.Graph, store ports.ContentStore) (*Report, error) {
	report := &Report{Workflow: g.Name()}

	reached := make(map[string]bool, g.Len())
	var queue []string
	for _, s := range g.EntrySteps() {
		queue = append(queue, s.ID)
	}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if reached[currentID] {
			continue
		}
		reached[currentID] = true

		step, _ := g.Step(currentID)
		for _, next := range step.Next {
			if !reached[next] {
				queue = append(queue, next)
			}
		}
	}

	// Walk edges backwards from the terminal steps.
	incoming := make(map[string][]string, g.Len())
	exits := make(map[string]bool, g.Len())
	for _, s := range g.Steps() {
		for _, next := range s.Next {
			incoming[next] = append(incoming[next], s.ID)
		}
		if s.IsTerminal() {
			queue = append(queue, s.ID)
		}
	}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if exits[currentID] {
			continue
		}
		exits[currentID] = true
		queue = append(queue, incoming[currentID]...)
	}

	for _, id := range g.StepIDs() {
		if !reached[id] {
			report.Unreachable = append(report.Unreachable, id)
		}
		if !exits[id] {
			report.NoExit = append(report.NoExit, id)
		}
		if store == nil {
			continue
		}
		versions, err := store.Versions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list versions of step %s: %w", id, err)
		}
		if len(versions) == 0 {
			report.MissingContent = append(report.MissingContent, id)
		}
	}

	slices.Sort(report.MissingContent)
	return report, nil
}
