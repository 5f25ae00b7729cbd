package ports

import (
	"context"

	"github.com/aretw0/deckflow/pkg/domain"
)

// WorkflowLoader defines how the workflow graph is obtained.
// This allows the definition format (YAML, DSL, remote) to be decoupled.
type WorkflowLoader interface {
	Load(ctx context.Context) (*domain.Graph, error)
}

// Watchable defines an interface for content sources that can notify about changes.
// This is typically used to regenerate presentations while authoring.
type Watchable interface {
	// Watch returns a channel that is signaled with the changed document ID.
	Watch(ctx context.Context) (<-chan string, error)
}
