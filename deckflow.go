package deckflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/deckflow/internal/validator"
	"github.com/aretw0/deckflow/pkg/adapters/html"
	loamAdapter "github.com/aretw0/deckflow/pkg/adapters/loam"
	"github.com/aretw0/deckflow/pkg/adapters/workflowfile"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/orchestrator"
	"github.com/aretw0/deckflow/pkg/ports"
)

// Default project layout.
const (
	DefaultWorkflowFile = "workflow.yaml"
	DefaultContentDir   = "slides"
)

// Engine is the high-level entry point for the deckflow library.
// It binds a workflow, its slide content and a renderer to the orchestrator.
type Engine struct {
	Name string

	workflowFile string
	contentDir   string
	loader       ports.WorkflowLoader
	store        ports.ContentStore
	renderer     ports.Renderer
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	workers      int

	orch *orchestrator.Orchestrator

	mu    sync.RWMutex
	graph *domain.Graph
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraph uses an already built graph, for instance from the dsl package.
func WithGraph(g *domain.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithLoader injects a custom WorkflowLoader, bypassing the workflow file.
func WithLoader(l ports.WorkflowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithWorkflowFile changes the workflow file name inside the project (default: "workflow.yaml").
func WithWorkflowFile(name string) Option {
	return func(e *Engine) {
		e.workflowFile = name
	}
}

// WithContentStore injects a custom ContentStore, bypassing the Loam slides directory.
func WithContentStore(s ports.ContentStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithContentDir changes the slides directory inside the project (default: "slides").
func WithContentDir(name string) Option {
	return func(e *Engine) {
		e.contentDir = name
	}
}

// WithRenderer sets the output renderer (default: HTML).
func WithRenderer(r ports.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers bounds the number of presentations rendered in parallel.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New initializes a deckflow Engine for the project at repoPath.
// Collaborators not given as options are built from the project layout:
// the workflow file is loaded eagerly and the slides directory is opened as a
// Loam repository. repoPath may be empty when both the workflow and the
// content store are injected.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		workflowFile: DefaultWorkflowFile,
		contentDir:   DefaultContentDir,
	}

	for _, opt := range opts {
		opt(eng)
	}

	var absPath string
	if repoPath != "" {
		var err error
		absPath, err = filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
	}

	needsRepo := (eng.graph == nil && eng.loader == nil) || eng.store == nil
	if needsRepo && absPath == "" {
		return nil, errors.New("repoPath is required when the workflow or content store is not provided")
	}

	if eng.graph == nil && eng.loader == nil {
		eng.loader = workflowfile.New(filepath.Join(absPath, eng.workflowFile))
	}

	if eng.store == nil {
		store, err := loamAdapter.Open(filepath.Join(absPath, eng.contentDir))
		if err != nil {
			return nil, err
		}
		eng.store = store
	}

	if eng.renderer == nil {
		eng.renderer = html.New()
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if eng.graph == nil {
		if err := eng.Reload(context.Background()); err != nil {
			return nil, err
		}
	}

	eng.Name = eng.graph.Name()
	eng.logger = eng.logger.With("workflow", eng.Name)

	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(eng.logger),
		orchestrator.WithLifecycleHooks(eng.hooks),
	}
	if eng.workers > 0 {
		orchOpts = append(orchOpts, orchestrator.WithWorkers(eng.workers))
	}
	eng.orch = orchestrator.New(eng.store, eng.renderer, orchOpts...)

	return eng, nil
}

// Reload reads the workflow again through the loader.
// Engines built WithGraph keep their graph.
func (e *Engine) Reload(ctx context.Context) error {
	if e.loader == nil {
		return nil
	}
	g, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}

	e.mu.Lock()
	e.graph = g
	e.mu.Unlock()
	return nil
}

// Graph returns the current workflow graph.
func (e *Engine) Graph() *domain.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph
}

// Paths enumerates every entry-to-terminal path of the workflow.
func (e *Engine) Paths() iter.Seq[domain.Path] {
	return e.Graph().Paths()
}

// GenerateLinear renders one presentation per path into outputDir.
// Per-presentation failures are reported in the Summary, not as an error.
func (e *Engine) GenerateLinear(ctx context.Context, version int, outputDir string) (*domain.Summary, error) {
	return e.orch.GenerateLinear(ctx, e.Graph(), version, outputDir)
}

// GenerateGraph renders the whole workflow as a single presentation into outputDir.
func (e *Engine) GenerateGraph(ctx context.Context, version int, outputDir string) (*domain.Summary, error) {
	return e.orch.GenerateGraph(ctx, e.Graph(), version, outputDir)
}

// Assemble resolves the slides of one path without rendering them.
func (e *Engine) Assemble(ctx context.Context, version int, path domain.Path) (*domain.Artifact, error) {
	return e.orch.Assemble(ctx, e.Graph(), version, path)
}

// ValidationReport lists workflow warnings.
type ValidationReport = validator.Report

// Validate reports unreachable steps, steps without a way out and steps without content.
func (e *Engine) Validate(ctx context.Context) (*ValidationReport, error) {
	return validator.ValidateGraph(ctx, e.Graph(), e.store)
}

// Watch returns a channel signaled when slide content changes.
// Returns error if the content store does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.store.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current content store does not support watching")
}

// ContentStore returns the store the engine resolves slides from.
func (e *Engine) ContentStore() ports.ContentStore {
	return e.store
}
