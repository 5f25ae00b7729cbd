package main

import (
	"github.com/aretw0/deckflow/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the HTTP generation server",
	Long: `Exposes presentation generation as a JSON API, with the workflow, a Mermaid
export, content change events and Prometheus metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = rt.Config.Server.Addr
		}
		output, _ := cmd.Flags().GetString("output")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, rt, cli.ServeOptions{Addr: addr, Output: output}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().StringP("output", "o", "", "Output directory (default from config)")
}
