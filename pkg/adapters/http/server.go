// Package http exposes presentation generation over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/deckflow"
	"github.com/aretw0/deckflow/internal/presentation/graph"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/naming"
	"github.com/aretw0/deckflow/pkg/orchestrator"
	"github.com/aretw0/deckflow/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// DefaultLockTTL bounds how long one generation may hold the workflow lock.
const DefaultLockTTL = 2 * time.Minute

// Generator is the part of the deckflow engine the server drives.
type Generator interface {
	Graph() *domain.Graph
	GenerateLinear(ctx context.Context, version int, outputDir string) (*domain.Summary, error)
	GenerateGraph(ctx context.Context, version int, outputDir string) (*domain.Summary, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves the generation API.
type Server struct {
	gen       Generator
	outputDir string
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	metrics   http.Handler
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLocker serializes generations of the same workflow across replicas.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Server) {
		s.locker = l
		s.lockTTL = ttl
	}
}

// WithMetrics mounts a metrics handler (e.g. promhttp) on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for gen, writing presentations into outputDir.
func NewHandler(gen Generator, outputDir string, opts ...Option) http.Handler {
	s := &Server{
		gen:       gen,
		outputDir: outputDir,
		lockTTL:   DefaultLockTTL,
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/workflow", s.GetWorkflow)
	r.Get("/workflow/mermaid", s.GetMermaid)
	r.Post("/presentations/{mode}", s.Generate)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GenerateRequest is the body of POST /presentations/{mode}.
type GenerateRequest struct {
	Version *int `json:"version"`
}

// Generate handles POST /presentations/linear and POST /presentations/graph.
//
// Status codes: 200 when every presentation rendered, 207 when only some did,
// 500 when none did, 400 for a malformed request, 409 when the workflow lock
// could not be taken.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	mode := domain.Mode(chi.URLParam(r, "mode"))
	if mode != domain.ModeLinear && mode != domain.ModeGraph {
		http.Error(w, fmt.Sprintf("Unknown mode %q", mode), http.StatusNotFound)
		return
	}

	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Generate: Invalid request body", "err", err)
		return
	}
	if body.Version == nil {
		http.Error(w, "Missing version", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	g := s.gen.Graph()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "generate:"+g.Name(), s.lockTTL)
		if err != nil {
			http.Error(w, fmt.Sprintf("Workflow is busy: %v", err), http.StatusConflict)
			s.logger.Warn("Generate: lock failed", "workflow", g.Name(), "err", err)
			return
		}
		defer func() {
			// The request context may already be done; release regardless.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Error("Generate: unlock failed", "workflow", g.Name(), "err", err)
			}
		}()
	}

	var (
		summary *domain.Summary
		err     error
	)
	if mode == domain.ModeLinear {
		summary, err = s.gen.GenerateLinear(ctx, *body.Version, s.outputDir)
	} else {
		summary, err = s.gen.GenerateGraph(ctx, *body.Version, s.outputDir)
	}

	if summary == nil {
		status := http.StatusInternalServerError
		if errors.Is(err, orchestrator.ErrInvalidVersion) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Generate error: %v", err), status)
		s.logger.Error("Generate failed", "mode", mode, "err", err)
		return
	}

	status := http.StatusOK
	switch failed := len(summary.Failed()); {
	case failed == 0:
	case failed == len(summary.Outcomes):
		status = http.StatusInternalServerError
	default:
		status = http.StatusMultiStatus
	}

	writeJSON(w, status, summary, s.logger)
}

// WorkflowResponse describes the workflow and the linear presentations it yields.
type WorkflowResponse struct {
	Name  string         `json:"name"`
	Entry []string       `json:"entry"`
	Steps []domain.Step  `json:"steps"`
	Paths []PathResponse `json:"paths"`
}

// PathResponse is one enumerated path with its artifact stem.
type PathResponse struct {
	Steps domain.Path `json:"steps"`
	Name  string      `json:"name"`
}

// GetWorkflow handles GET /workflow. The optional "version" query parameter
// is used for artifact names (default 0).
func (s *Server) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	g := s.gen.Graph()

	version := 0
	if v := r.URL.Query().Get("version"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &version); err != nil || version < 0 {
			http.Error(w, "Invalid version", http.StatusBadRequest)
			return
		}
	}

	resp := WorkflowResponse{
		Name:  g.Name(),
		Steps: g.Steps(),
		Paths: []PathResponse{},
	}
	for _, e := range g.EntrySteps() {
		resp.Entry = append(resp.Entry, e.ID)
	}
	for p := range g.Paths() {
		resp.Paths = append(resp.Paths, PathResponse{Steps: p, Name: naming.LinearStem(g.Name(), version, p)})
	}

	writeJSON(w, http.StatusOK, resp, s.logger)
}

// GetMermaid handles GET /workflow/mermaid. The optional "path" query
// parameter (comma separated step IDs) is highlighted.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if p := r.URL.Query().Get("path"); p != "" {
		overlay = &graph.Overlay{Path: strings.Split(p, ",")}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.gen.Graph(), overlay))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":      "deckflow-http",
		"version":  strings.TrimSpace(deckflow.Version),
		"workflow": s.gen.Graph().Name(),
	}, s.logger)
}

// SubscribeEvents handles the GET /events request (SSE).
// Each content change is pushed as one data line holding the document ID.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := s.gen.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
