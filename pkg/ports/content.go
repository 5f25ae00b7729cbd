package ports

import (
	"context"

	"github.com/aretw0/deckflow/pkg/domain"
)

// ContentStore holds slide content keyed by step ID and version.
type ContentStore interface {
	// Versions returns the content versions authored for a step, in ascending order.
	// A step without content yields an empty list and no error.
	Versions(ctx context.Context, stepID string) ([]int, error)

	// Slide returns the content of a step at exactly the given version.
	// Returns domain.ErrSlideNotFound if that version does not exist.
	Slide(ctx context.Context, stepID string, version int) (domain.Slide, error)
}
