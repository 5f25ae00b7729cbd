package main

import (
	"github.com/aretw0/deckflow/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts deckflow as an MCP Server, so AI agents can list paths, validate the
workflow and generate presentations as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Logs go to stderr.
- sse: Uses Server-Sent Events over HTTP.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		output, _ := cmd.Flags().GetString("output")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.ServeMCP(ctx, rt, cli.MCPOptions{Transport: transport, Port: port, Output: output})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", cli.TransportStdio, "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the sse transport")
	mcpCmd.Flags().StringP("output", "o", "", "Output directory (default from config)")
}
