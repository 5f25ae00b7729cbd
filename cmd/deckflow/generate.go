package main

import (
	"github.com/aretw0/deckflow/internal/cli"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/spf13/cobra"
)

var linearCmd = &cobra.Command{
	Use:   "linear [dir]",
	Short: "Render one presentation per workflow path",
	Long: `Enumerates every entry-to-terminal path of the workflow and renders one
presentation per path, named {workflow}_v{version}_{id1}-...-{idN}.html.
A path whose steps lack content at or below the version fails alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate(domain.ModeLinear),
}

var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Render the whole workflow as one navigable presentation",
	Long: `Renders every step of the workflow into {workflow}_v{version}.html, with one
link per successor so the viewer chooses the branch to follow.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate(domain.ModeGraph),
}

func runGenerate(mode domain.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		version, _ := cmd.Flags().GetInt("version")
		output, _ := cmd.Flags().GetString("output")
		manifest, _ := cmd.Flags().GetBool("manifest")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Generate(ctx, rt, cli.GenerateOptions{
			Mode:     mode,
			Version:  version,
			Output:   output,
			Manifest: manifest,
			Watch:    watch,
		}, cmd.OutOrStdout())
	}
}

func init() {
	for _, c := range []*cobra.Command{linearCmd, graphCmd} {
		c.Flags().IntP("version", "v", 0, "Content version to render")
		c.Flags().StringP("output", "o", "", "Output directory (default from config)")
		c.Flags().Bool("manifest", false, "Write a JSON summary of the run next to the presentations")
		c.Flags().BoolP("watch", "w", false, "Regenerate whenever slide content or the workflow file changes")
		rootCmd.AddCommand(c)
	}
}
