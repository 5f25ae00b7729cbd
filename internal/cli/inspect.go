package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/deckflow/internal/presentation/graph"
	"github.com/aretw0/deckflow/internal/presentation/tui"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/naming"
)

// ListPaths prints every path and the linear artifact it would produce.
func ListPaths(rt *Runtime, version int, out io.Writer) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	g := engine.Graph()
	n := 0
	for p := range engine.Paths() {
		n++
		fmt.Fprintf(out, "%-40s %s\n", p.String(), naming.Linear(g.Name(), version, p))
	}
	if n == 0 {
		fmt.Fprintln(out, "no entry-to-terminal path")
	}
	return nil
}

// PrintMermaid writes the workflow as a Mermaid flowchart, highlighting
// path when it is not empty.
func PrintMermaid(rt *Runtime, path string, out io.Writer) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if path != "" {
		overlay = &graph.Overlay{Path: ParsePath(path)}
	}
	_, err = io.WriteString(out, graph.GenerateMermaid(engine.Graph(), overlay))
	return err
}

// Validate prints the workflow warnings. It returns an error when strict is
// set and warnings were found.
func Validate(ctx context.Context, rt *Runtime, strict bool, out io.Writer) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	report, err := engine.Validate(ctx)
	if err != nil {
		return err
	}

	if report.OK() {
		fmt.Fprintf(out, "Workflow '%s' is valid! ✅\n", report.Workflow)
		return nil
	}

	for _, w := range report.Warnings() {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if strict {
		return fmt.Errorf("found %d warnings", len(report.Warnings()))
	}
	return nil
}

// Preview renders one path in the terminal. An empty path previews the first one.
func Preview(ctx context.Context, rt *Runtime, version int, path string, out io.Writer) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	var p domain.Path
	if path != "" {
		p = ParsePath(path)
	} else {
		for first := range engine.Paths() {
			p = first
			break
		}
		if p == nil {
			return fmt.Errorf("workflow '%s' has no entry-to-terminal path", engine.Name)
		}
	}

	artifact, err := engine.Assemble(ctx, version, p)
	if err != nil {
		return err
	}
	return tui.Preview(out, artifact)
}

// ParsePath splits "A,B,D" or "A -> B -> D" into step IDs.
func ParsePath(s string) domain.Path {
	s = strings.ReplaceAll(s, "->", ",")
	var p domain.Path
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			p = append(p, id)
		}
	}
	return p
}
