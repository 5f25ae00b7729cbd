// Package markdown renders artifacts as marp-style markdown decks,
// one slide per "---" separated section.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/deckflow/internal/adapters/file"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/naming"
)

// Extension replaces naming.Extension on markdown decks.
const Extension = ".md"

// Renderer implements ports.Renderer.
type Renderer struct{}

// New creates a markdown renderer.
func New() *Renderer {
	return &Renderer{}
}

// FileName maps an artifact file name to the markdown file written for it.
func FileName(artifactFile string) string {
	return naming.Stem(artifactFile) + Extension
}

// Render writes the deck atomically into outputDir.
func (r *Renderer) Render(ctx context.Context, outputDir string, artifact *domain.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return file.WriteAtomic(outputDir, FileName(artifact.FileName), r.Bytes(artifact))
}

// Bytes renders the deck in memory.
func (r *Renderer) Bytes(artifact *domain.Artifact) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "---\nmarp: true\ntitle: %s\n---\n", artifact.Name)

	for i, s := range artifact.Slides {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		fmt.Fprintf(&b, "\n<!-- step: %s, version: %d -->\n\n", s.StepID, s.Version)
		if s.Title != "" && !strings.HasPrefix(strings.TrimSpace(s.Body), "#") {
			fmt.Fprintf(&b, "# %s\n\n", s.Title)
		}
		b.WriteString(strings.TrimSpace(s.Body))
		b.WriteString("\n")

		if artifact.Mode == domain.ModeGraph {
			if next := artifact.Links[s.StepID]; len(next) > 0 {
				b.WriteString("\nNext: ")
				b.WriteString(strings.Join(next, " | "))
				b.WriteString("\n")
			}
		}
	}

	return b.Bytes()
}
