package domain

import (
	"iter"
	"strings"
)

// Path is an ordered sequence of step IDs from an entry step to a terminal step.
type Path []string

// String renders the path as "A -> B -> C".
func (p Path) String() string {
	return strings.Join(p, " -> ")
}

// Equal reports whether both paths visit the same steps in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Paths enumerates every path from an entry step to a terminal step.
//
// The walk is depth-first from each entry step in order, following successors
// in their listed order, so paths through the first successor come before
// paths through later ones. A successor already on the current path is not
// entered again: on cyclic graphs that edge is a dead end and produces no path.
//
// The sequence is lazy and can be ranged over any number of times.
func (g *Graph) Paths() iter.Seq[Path] {
	return func(yield func(Path) bool) {
		onPath := make(map[string]bool, len(g.order))
		current := make([]string, 0, len(g.order))

		var walk func(id string) bool
		walk = func(id string) bool {
			onPath[id] = true
			current = append(current, id)
			defer func() {
				current = current[:len(current)-1]
				delete(onPath, id)
			}()

			step := g.steps[id]
			if step.IsTerminal() {
				return yield(append(Path(nil), current...))
			}
			for _, next := range step.Next {
				if onPath[next] {
					continue
				}
				if !walk(next) {
					return false
				}
			}
			return true
		}

		for _, root := range g.roots {
			if !walk(root) {
				return
			}
		}
	}
}

// AllPaths collects Paths into a slice.
func (g *Graph) AllPaths() []Path {
	var out []Path
	for p := range g.Paths() {
		out = append(out, p)
	}
	return out
}
