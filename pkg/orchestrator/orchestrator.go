// Package orchestrator maps a workflow graph to rendered presentations.
//
// Two generation modes are available. Linear generation renders one
// presentation per entry-to-terminal path. Graph generation renders a single
// presentation holding every step and its successor links, so the viewer can
// choose which branch to follow.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/naming"
	"github.com/aretw0/deckflow/pkg/ports"
	"github.com/aretw0/deckflow/pkg/resolver"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidVersion is returned when a negative version is requested.
var ErrInvalidVersion = errors.New("version must be non-negative")

// Orchestrator generates presentation artifacts.
// It holds no per-run state, so one instance can serve concurrent generations.
type Orchestrator struct {
	resolver *resolver.Resolver
	renderer ports.Renderer
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	workers  int
	runID    func() string
}

// Option defines a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithWorkers bounds how many artifacts are rendered in parallel (default: NumCPU).
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithRunIDGenerator overrides how run IDs are generated (default: random UUID).
func WithRunIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		o.runID = fn
	}
}

// New creates an Orchestrator reading content from store and writing through renderer.
func New(store ports.ContentStore, renderer ports.Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{renderer: renderer}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if o.runID == nil {
		o.runID = func() string { return uuid.NewString() }
	}
	o.resolver = resolver.New(store, resolver.WithLogger(o.logger))
	return o
}

// GenerateLinear renders one artifact per path of the graph.
//
// Artifacts are independent: a missing content version or a render failure
// fails only that artifact and is reported in the Summary, in path order.
// The returned error is reserved for invalid input.
func (o *Orchestrator) GenerateLinear(ctx context.Context, g *domain.Graph, version int, outputDir string) (*domain.Summary, error) {
	if err := validate(g, version); err != nil {
		return nil, err
	}

	summary := o.newSummary(g, version, domain.ModeLinear)
	logger := o.logger.With("run_id", summary.RunID, "workflow", g.Name(), "version", version, "mode", domain.ModeLinear)

	paths := g.AllPaths()
	if len(paths) == 0 {
		logger.Warn("workflow has no entry-to-terminal path, nothing to render")
		return summary, nil
	}

	summary.Outcomes = make([]domain.Outcome, len(paths))

	artifacts := make([]*domain.Artifact, len(paths))
	byName := make(map[string][]int, len(paths))
	for i, path := range paths {
		artifacts[i] = &domain.Artifact{
			Name:     naming.LinearStem(g.Name(), version, path),
			FileName: naming.Linear(g.Name(), version, path),
			Workflow: g.Name(),
			Version:  version,
			Mode:     domain.ModeLinear,
			Path:     path,
		}
		byName[artifacts[i].FileName] = append(byName[artifacts[i].FileName], i)
	}

	var eg errgroup.Group
	eg.SetLimit(o.workers)
	for i, artifact := range artifacts {
		path := artifact.Path
		if same := byName[artifact.FileName]; len(same) > 1 {
			err := &domain.NameCollisionError{Artifact: artifact.FileName}
			for _, j := range same {
				err.Paths = append(err.Paths, paths[j])
			}
			summary.Outcomes[i] = domain.Outcome{Artifact: artifact.FileName, Path: path, Err: err}
			logger.Warn("artifact failed", "artifact", artifact.FileName, "path", path.String(), "err", err)
			continue
		}
		eg.Go(func() error {
			// Each worker owns its slot; failures never cancel siblings.
			summary.Outcomes[i] = o.generate(ctx, logger, summary.RunID, artifact, path, outputDir)
			return nil
		})
	}
	_ = eg.Wait()

	logger.Info("linear generation finished",
		"artifacts", len(summary.Outcomes),
		"failed", len(summary.Failed()),
	)
	return summary, nil
}

// GenerateGraph renders the whole workflow as a single artifact with its link map.
// Any failure fails the run; the Summary still describes the outcome.
func (o *Orchestrator) GenerateGraph(ctx context.Context, g *domain.Graph, version int, outputDir string) (*domain.Summary, error) {
	if err := validate(g, version); err != nil {
		return nil, err
	}

	summary := o.newSummary(g, version, domain.ModeGraph)
	logger := o.logger.With("run_id", summary.RunID, "workflow", g.Name(), "version", version, "mode", domain.ModeGraph)

	artifact := &domain.Artifact{
		Name:     naming.GraphStem(g.Name(), version),
		FileName: naming.Graph(g.Name(), version),
		Workflow: g.Name(),
		Version:  version,
		Mode:     domain.ModeGraph,
		Links:    g.Links(),
	}

	outcome := o.generate(ctx, logger, summary.RunID, artifact, g.StepIDs(), outputDir)
	summary.Outcomes = []domain.Outcome{outcome}
	if outcome.Err != nil {
		return summary, fmt.Errorf("graph presentation %s: %w", artifact.FileName, outcome.Err)
	}
	return summary, nil
}

// Assemble resolves the slides of one path without rendering them.
// The path must follow edges of the graph.
func (o *Orchestrator) Assemble(ctx context.Context, g *domain.Graph, version int, path domain.Path) (*domain.Artifact, error) {
	if err := validate(g, version); err != nil {
		return nil, err
	}
	if err := checkPath(g, path); err != nil {
		return nil, err
	}

	artifact := &domain.Artifact{
		Name:     naming.LinearStem(g.Name(), version, path),
		FileName: naming.Linear(g.Name(), version, path),
		Workflow: g.Name(),
		Version:  version,
		Mode:     domain.ModeLinear,
		Path:     path,
	}
	if err := o.resolve(ctx, artifact, path); err != nil {
		return nil, err
	}
	return artifact, nil
}

// generate resolves every step of one artifact and renders it.
// No partial artifact is rendered when a step cannot be resolved.
func (o *Orchestrator) generate(ctx context.Context, logger *slog.Logger, runID string, artifact *domain.Artifact, steps []string, outputDir string) domain.Outcome {
	outcome := domain.Outcome{Artifact: artifact.FileName, Path: artifact.Path}
	start := time.Now()

	event := &domain.ArtifactEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventArtifactStart, RunID: runID},
		Workflow:  artifact.Workflow,
		Artifact:  artifact.FileName,
		Mode:      artifact.Mode,
		Version:   artifact.Version,
		Steps:     len(steps),
	}
	if o.hooks.OnArtifactStart != nil {
		o.hooks.OnArtifactStart(ctx, event)
	}

	outcome.Err = o.build(ctx, artifact, steps, outputDir)

	done := *event
	done.Type = domain.EventArtifactDone
	done.Timestamp = time.Now()
	done.Duration = done.Timestamp.Sub(start)
	done.Err = outcome.Err
	if o.hooks.OnArtifactDone != nil {
		o.hooks.OnArtifactDone(ctx, &done)
	}

	if outcome.Err != nil {
		logger.Warn("artifact failed", "artifact", artifact.FileName, "err", outcome.Err)
	} else {
		logger.Info("artifact rendered", "artifact", artifact.FileName, "steps", len(steps), "duration", done.Duration)
	}
	return outcome
}

func (o *Orchestrator) build(ctx context.Context, artifact *domain.Artifact, steps []string, outputDir string) error {
	if err := o.resolve(ctx, artifact, steps); err != nil {
		return err
	}

	if err := o.renderer.Render(ctx, outputDir, artifact); err != nil {
		return &domain.RenderError{Artifact: artifact.FileName, Err: err}
	}
	return nil
}

func (o *Orchestrator) resolve(ctx context.Context, artifact *domain.Artifact, steps []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	slides := make([]domain.Slide, 0, len(steps))
	for _, id := range steps {
		slide, err := o.resolver.Slide(ctx, id, artifact.Version)
		if err != nil {
			return err
		}
		slides = append(slides, slide)
	}
	artifact.Slides = slides
	return nil
}

func (o *Orchestrator) newSummary(g *domain.Graph, version int, mode domain.Mode) *domain.Summary {
	return &domain.Summary{
		RunID:    o.runID(),
		Workflow: g.Name(),
		Version:  version,
		Mode:     mode,
	}
}

func checkPath(g *domain.Graph, path domain.Path) error {
	if len(path) == 0 {
		return errors.New("path is empty")
	}
	for i, id := range path {
		step, ok := g.Step(id)
		if !ok {
			return fmt.Errorf("step %q is not part of workflow %s", id, g.Name())
		}
		if i+1 < len(path) && !slices.Contains(step.Next, path[i+1]) {
			return fmt.Errorf("step %q does not lead to %q", id, path[i+1])
		}
	}
	return nil
}

func validate(g *domain.Graph, version int) error {
	if g == nil {
		return errors.New("graph is nil")
	}
	if version < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidVersion, version)
	}
	return nil
}
