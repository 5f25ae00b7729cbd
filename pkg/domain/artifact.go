package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mode selects how a workflow is mapped to presentations.
type Mode string

const (
	// ModeLinear renders one presentation per path.
	ModeLinear Mode = "linear"
	// ModeGraph renders one presentation for the whole workflow, keeping branches as links.
	ModeGraph Mode = "graph"
)

// Artifact is one presentation handed to a renderer.
type Artifact struct {
	// Name is the artifact name without the document extension.
	Name string `json:"name"`
	// FileName is the output file name, extension included.
	FileName string `json:"file_name"`

	Workflow string `json:"workflow"`
	Version  int    `json:"version"`
	Mode     Mode   `json:"mode"`

	// Path is the walked path (linear mode only).
	Path Path `json:"path,omitempty"`

	// Slides are the resolved contents in presentation order.
	Slides []Slide `json:"slides"`

	// Links maps each step ID to its successors (graph mode only).
	Links map[string][]string `json:"links,omitempty"`
}

// Outcome records the result of generating one artifact.
type Outcome struct {
	Artifact string `json:"artifact"`
	Path     Path   `json:"path,omitempty"`
	Err      error  `json:"-"`
}

// OK reports whether the artifact was rendered.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// MarshalJSON encodes the failure as its message.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(o)}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// Summary aggregates the outcomes of one generation run.
type Summary struct {
	RunID    string    `json:"run_id"`
	Workflow string    `json:"workflow"`
	Version  int       `json:"version"`
	Mode     Mode      `json:"mode"`
	Outcomes []Outcome `json:"outcomes"`
}

// Succeeded returns the outcomes that rendered.
func (s *Summary) Succeeded() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes that did not render.
func (s *Summary) Failed() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Err joins every artifact failure, or returns nil when all artifacts rendered.
func (s *Summary) Err() error {
	var errs []error
	for _, o := range s.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Artifact, o.Err))
		}
	}
	return errors.Join(errs...)
}
