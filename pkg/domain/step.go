package domain

// Step represents one node of a workflow graph.
// Each step maps to one slide of the rendered presentation.
type Step struct {
	ID string `json:"id" yaml:"id"`

	// Title is an optional human label used by renderers and diagrams.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Next lists the successor step IDs in author order.
	// An empty list marks a terminal step.
	Next []string `json:"next" yaml:"next"`
}

// IsTerminal reports whether the step has no successors.
func (s Step) IsTerminal() bool {
	return len(s.Next) == 0
}

// Label returns the title, falling back to the ID.
func (s Step) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

func (s Step) clone() Step {
	next := make([]string, len(s.Next))
	copy(next, s.Next)
	s.Next = next
	return s
}
