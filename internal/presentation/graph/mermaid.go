package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckflow/pkg/domain"
)

// Overlay highlights one path of the workflow on the diagram.
type Overlay struct {
	Path domain.Path
}

// GenerateMermaid produces a Mermaid flowchart of the workflow graph.
// Shapes:
// - Entry: ((Circle))
// - Terminal: ([Stadium])
// - Default: [Rectangle]
// Edges along the overlay path are drawn thick and its steps are styled.
func GenerateMermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	entries := make(map[string]bool)
	for _, s := range g.EntrySteps() {
		entries[s.ID] = true
	}

	onPath := make(map[[2]string]bool)
	if overlay != nil {
		for i := 1; i < len(overlay.Path); i++ {
			onPath[[2]string{overlay.Path[i-1], overlay.Path[i]}] = true
		}
	}

	for _, step := range g.Steps() {
		safeID := sanitizeMermaidID(step.ID)

		opener, closer := "[", "]"
		switch {
		case entries[step.ID]:
			opener, closer = "((", "))"
		case step.IsTerminal():
			opener, closer = "([", "])"
		}

		label := strings.ReplaceAll(step.Label(), "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, next := range step.Next {
			arrow := "-->"
			if onPath[[2]string{step.ID, next}] {
				arrow = "==>"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(next))
		}
	}

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Path Overlay\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef path fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Path {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s path;\n", safeID)
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
