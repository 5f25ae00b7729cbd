package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	mcpAdapter "github.com/aretw0/deckflow/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Transport string
	Port      int
	Output    string
}

// ServeMCP exposes the engine as MCP tools until ctx is done (sse) or stdin closes (stdio).
func ServeMCP(ctx context.Context, rt *Runtime, opts MCPOptions) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	outputDir := opts.Output
	if outputDir == "" {
		outputDir = resolve(rt.Options.RepoPath, rt.Config.Output)
	}

	srv := mcpAdapter.NewServer(engine, outputDir, mcpAdapter.WithLogger(rt.Logger))

	switch opts.Transport {
	case TransportStdio, "":
		rt.Logger.Info("Starting deckflow MCP Server (Stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		rt.Logger.Info("Starting deckflow MCP Server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(ctx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		rt.Logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
