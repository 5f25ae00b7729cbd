// Package workflowfile loads workflow graphs from YAML definition files.
//
// A definition looks like:
//
//	name: Onboarding
//	entry: [A]          # optional, defaults to steps without incoming edges
//	steps:
//	  - id: A
//	    title: Welcome
//	    next: [B, C]
//	  - id: B
//	    next: [D]
//	  - id: C
//	    next: [D]
//	  - id: D
package workflowfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/deckflow/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Definition is the on-disk shape of a workflow.
type Definition struct {
	Name  string           `yaml:"name"`
	Entry []string         `yaml:"entry,omitempty"`
	Steps []StepDefinition `yaml:"steps"`
}

// StepDefinition is the on-disk shape of a step.
type StepDefinition struct {
	ID    string   `yaml:"id"`
	Title string   `yaml:"title,omitempty"`
	Next  []string `yaml:"next,omitempty"`
}

// Loader implements ports.WorkflowLoader for a YAML file.
type Loader struct {
	Path string
}

// New creates a loader for the given file.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and parses the workflow file.
// When the definition has no name, the file name without extension is used.
func (l *Loader) Load(ctx context.Context) (*domain.Graph, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}

	fallback := strings.TrimSuffix(filepath.Base(l.Path), filepath.Ext(l.Path))
	return Parse(data, fallback)
}

// Parse decodes a YAML definition into a validated graph.
// Unknown keys are rejected so typos like "nxt" do not silently drop edges.
func Parse(data []byte, fallbackName string) (*domain.Graph, error) {
	var def Definition

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("workflow definition is empty")
		}
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}

	return def.Graph(fallbackName)
}

// Graph converts the definition into a validated domain graph.
func (d Definition) Graph(fallbackName string) (*domain.Graph, error) {
	name := d.Name
	if name == "" {
		name = fallbackName
	}

	steps := make([]domain.Step, 0, len(d.Steps))
	for _, s := range d.Steps {
		steps = append(steps, domain.Step{ID: s.ID, Title: s.Title, Next: s.Next})
	}
	return domain.NewGraph(name, steps, d.Entry...)
}
