package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph matches every GraphError.
	ErrInvalidGraph = errors.New("invalid workflow graph")

	// ErrNoVersionAvailable matches every NoVersionAvailableError.
	ErrNoVersionAvailable = errors.New("no content version available")

	// ErrRender matches every RenderError.
	ErrRender = errors.New("render failed")

	// ErrNameCollision matches every NameCollisionError.
	ErrNameCollision = errors.New("artifact name collision")

	// ErrSlideNotFound is returned by content stores when a step has no content at a version.
	ErrSlideNotFound = errors.New("slide not found")
)

// GraphError reports a malformed workflow graph.
type GraphError struct {
	Workflow string
	StepID   string
	Reason   string
}

func (e *GraphError) Error() string {
	if e.StepID == "" {
		return fmt.Sprintf("workflow %q: %s", e.Workflow, e.Reason)
	}
	return fmt.Sprintf("workflow %q: step %q: %s", e.Workflow, e.StepID, e.Reason)
}

func (e *GraphError) Is(target error) bool {
	return target == ErrInvalidGraph
}

// NoVersionAvailableError is returned when a step has no content at or below the requested version.
type NoVersionAvailableError struct {
	StepID    string
	Requested int
	Available []int
}

func (e *NoVersionAvailableError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("step %q: no content version <= %d (no versions authored)", e.StepID, e.Requested)
	}
	return fmt.Sprintf("step %q: no content version <= %d (earliest is %d)", e.StepID, e.Requested, e.Available[0])
}

func (e *NoVersionAvailableError) Is(target error) bool {
	return target == ErrNoVersionAvailable
}

// RenderError wraps a renderer failure for one artifact.
type RenderError struct {
	Artifact string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Artifact, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

// NameCollisionError is returned when distinct paths map to the same artifact
// name, e.g. "a -> b" and a single step "a-b". None of the colliding
// artifacts is rendered.
type NameCollisionError struct {
	Artifact string
	Paths    []Path
}

func (e *NameCollisionError) Error() string {
	paths := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		paths[i] = "[" + p.String() + "]"
	}
	return fmt.Sprintf("artifact %s is produced by %d paths: %s", e.Artifact, len(e.Paths), strings.Join(paths, ", "))
}

func (e *NameCollisionError) Is(target error) bool {
	return target == ErrNameCollision
}
