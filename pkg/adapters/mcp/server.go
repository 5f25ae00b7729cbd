// Package mcp exposes deckflow as a Model Context Protocol server, so agents
// can inspect a workflow and generate its presentations as tools.
package mcp

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
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
)

// WorkflowURI is the resource holding the workflow definition.
const WorkflowURI = "deckflow://workflow"

// Engine defines the part of the deckflow engine the MCP server drives.
type Engine interface {
	Graph() *domain.Graph
	GenerateLinear(ctx context.Context, version int, outputDir string) (*domain.Summary, error)
	GenerateGraph(ctx context.Context, version int, outputDir string) (*domain.Summary, error)
	Validate(ctx context.Context) (*deckflow.ValidationReport, error)
}

// GenerateResponse is the structured result of the generate tool.
type GenerateResponse struct {
	Mode      domain.Mode      `json:"mode" jsonschema_description:"The generation mode"`
	Version   int              `json:"version" jsonschema_description:"The requested content version"`
	OutputDir string           `json:"output_dir" jsonschema_description:"Directory the presentations were written to"`
	Outcomes  []domain.Outcome `json:"outcomes" jsonschema_description:"One entry per presentation, with an error when it failed"`
}

// PathsResponse is the structured result of the list_paths tool.
type PathsResponse struct {
	Workflow string     `json:"workflow" jsonschema_description:"The workflow name"`
	Paths    []PathInfo `json:"paths" jsonschema_description:"Every path from an entry step to a terminal step"`
}

// PathInfo is one path with the artifact it would produce.
type PathInfo struct {
	Steps    []string `json:"steps"`
	Artifact string   `json:"artifact"`
}

// Server wraps the deckflow Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	outputDir string
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server writing presentations into outputDir.
func NewServer(engine Engine, outputDir string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		outputDir: outputDir,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("deckflow-mcp", strings.TrimSpace(deckflow.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_paths
	pathsTool := mcp.NewTool("list_paths",
		mcp.WithDescription("List every path of the workflow with the linear presentation it produces."),
		mcp.WithNumber("version", mcp.Description("Content version used in artifact names (default 0)")),
		mcp.WithOutputSchema[PathsResponse](),
	)
	s.mcpServer.AddTool(pathsTool, mcp.NewStructuredToolHandler(s.handleListPaths))

	// TOOL: generate
	generateTool := mcp.NewTool("generate",
		mcp.WithDescription("Generate presentations for a content version."),
		mcp.WithString("mode", mcp.Required(), mcp.Description("linear (one deck per path) or graph (one navigable deck)")),
		mcp.WithNumber("version", mcp.Required(), mcp.Description("Content version to assemble")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: mermaid
	s.mcpServer.AddTool(mcp.NewTool("mermaid",
		mcp.WithDescription("Export the workflow as a Mermaid flowchart."),
		mcp.WithString("path", mcp.Description("Comma separated step IDs to highlight (optional)")),
	), s.handleMermaid)

	// TOOL: validate
	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Report unreachable steps, steps without exit and steps without content."),
	), s.handleValidate)
}

func (s *Server) handleListPaths(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PathsResponse, error) {
	version := 0
	if v, ok := args["version"]; ok {
		var err error
		if version, err = cast.ToIntE(v); err != nil {
			return PathsResponse{}, fmt.Errorf("invalid version: %w", err)
		}
	}

	g := s.engine.Graph()
	resp := PathsResponse{Workflow: g.Name(), Paths: []PathInfo{}}
	for p := range g.Paths() {
		resp.Paths = append(resp.Paths, PathInfo{
			Steps:    p,
			Artifact: naming.Linear(g.Name(), version, p),
		})
	}
	return resp, nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	mode := domain.Mode(cast.ToString(args["mode"]))
	version, err := cast.ToIntE(args["version"])
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("invalid version: %w", err)
	}

	var summary *domain.Summary
	switch mode {
	case domain.ModeLinear:
		summary, err = s.engine.GenerateLinear(ctx, version, s.outputDir)
	case domain.ModeGraph:
		summary, err = s.engine.GenerateGraph(ctx, version, s.outputDir)
	default:
		return GenerateResponse{}, fmt.Errorf("unknown mode %q", mode)
	}
	if summary == nil {
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}
	if err != nil {
		s.logger.Warn("MCP Generate: some presentations failed", "mode", mode, "err", err)
	}

	return GenerateResponse{
		Mode:      mode,
		Version:   version,
		OutputDir: s.outputDir,
		Outcomes:  summary.Outcomes,
	}, nil
}

func (s *Server) handleMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var overlay *graph.Overlay
	if p := request.GetString("path", ""); p != "" {
		overlay = &graph.Overlay{Path: strings.Split(p, ",")}
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(s.engine.Graph(), overlay)), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.engine.Validate(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validate failed: %v", err)), nil
	}
	if report.OK() {
		return mcp.NewToolResultText(fmt.Sprintf("workflow '%s' is valid", report.Workflow)), nil
	}
	return mcp.NewToolResultText(strings.Join(report.Warnings(), "\n")), nil
}

func (s *Server) registerResources() {
	// EXPOSE: deckflow://workflow
	s.mcpServer.AddResource(mcp.NewResource(WorkflowURI, "Current Workflow Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := workflowJSON(s.engine.Graph())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      WorkflowURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func workflowJSON(g *domain.Graph) (string, error) {
	if g == nil {
		return "", errors.New("no workflow loaded")
	}
	entry := make([]string, 0)
	for _, e := range g.EntrySteps() {
		entry = append(entry, e.ID)
	}
	data, err := json.Marshal(struct {
		Name  string        `json:"name"`
		Entry []string      `json:"entry"`
		Steps []domain.Step `json:"steps"`
	}{g.Name(), entry, g.Steps()})
	if err != nil {
		return "", fmt.Errorf("failed to encode workflow: %w", err)
	}
	return string(data), nil
}
