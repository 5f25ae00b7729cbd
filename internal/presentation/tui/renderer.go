package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWrap = 80

// IsTerminal reports whether w is a character device such as a TTY.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown for w using glamour.
// Terminals get an auto-detected light/dark style wrapped to their width;
// anything else gets the plain "notty" style.
func NewRenderer(w io.Writer) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("notty"), glamour.WithWordWrap(defaultWrap)}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		wrap := defaultWrap
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			wrap = width
		}
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle(), glamour.WithWordWrap(wrap)}
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// Preview writes every slide of the artifact to w, separated by a rule.
func Preview(w io.Writer, artifact *domain.Artifact) error {
	render, err := NewRenderer(w)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s, v%d)\n", artifact.Name, artifact.Mode, artifact.Version)

	for i, s := range artifact.Slides {
		fmt.Fprintf(w, "\n%s [%d/%d] %s v%d\n", strings.Repeat("─", 3), i+1, len(artifact.Slides), s.StepID, s.Version)

		body := s.Body
		if s.Title != "" && !strings.HasPrefix(strings.TrimSpace(body), "#") {
			body = "# " + s.Title + "\n\n" + body
		}

		out, err := render(body)
		if err != nil {
			return fmt.Errorf("failed to render slide %s: %w", s.StepID, err)
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}
