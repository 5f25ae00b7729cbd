package ports

import (
	"context"

	"github.com/aretw0/deckflow/pkg/domain"
)

// Renderer turns a resolved artifact into a persisted document.
// Errors are opaque to the caller; they only fail the artifact being rendered.
type Renderer interface {
	// Render writes artifact.FileName into outputDir.
	// Implementations must not leave a partially written file behind on failure.
	Render(ctx context.Context, outputDir string, artifact *domain.Artifact) error
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(ctx context.Context, outputDir string, artifact *domain.Artifact) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, outputDir string, artifact *domain.Artifact) error {
	return f(ctx, outputDir, artifact)
}
