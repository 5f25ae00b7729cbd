package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventArtifactStart EventType = "artifact_start"
	EventArtifactDone  EventType = "artifact_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// ArtifactEvent describes one artifact generation.
type ArtifactEvent struct {
	EventBase
	Workflow string        `json:"workflow"`
	Artifact string        `json:"artifact"`
	Mode     Mode          `json:"mode"`
	Version  int           `json:"version"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for generation observability.
// Hooks may be called concurrently from several artifact workers.
type LifecycleHooks struct {
	OnArtifactStart func(context.Context, *ArtifactEvent)
	OnArtifactDone  func(context.Context, *ArtifactEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnArtifactStart: chain(h.OnArtifactStart, other.OnArtifactStart),
		OnArtifactDone:  chain(h.OnArtifactDone, other.OnArtifactDone),
	}
}

func chain(a, b func(context.Context, *ArtifactEvent)) func(context.Context, *ArtifactEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *ArtifactEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
