package main

import (
	"github.com/aretw0/deckflow/internal/cli"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths [dir]",
	Short: "List the workflow paths and their presentation names",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		version, _ := cmd.Flags().GetInt("version")
		return cli.ListPaths(rt, version, cmd.OutOrStdout())
	},
}

var mermaidCmd = &cobra.Command{
	Use:   "mermaid [dir]",
	Short: "Export the workflow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the workflow, optionally highlighting one path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		path, _ := cmd.Flags().GetString("path")
		return cli.PrintMermaid(rt, path, cmd.OutOrStdout())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the workflow and its content for consistency",
	Long: `Crawls the workflow from its entry steps and reports unreachable steps,
steps that cannot reach a terminal step, and steps without any slide content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		strict, _ := cmd.Flags().GetBool("strict")
		return cli.Validate(cmd.Context(), rt, strict, cmd.OutOrStdout())
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [dir]",
	Short: "Render one path in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		version, _ := cmd.Flags().GetInt("version")
		path, _ := cmd.Flags().GetString("path")
		return cli.Preview(cmd.Context(), rt, version, path, cmd.OutOrStdout())
	},
}

var pushCmd = &cobra.Command{
	Use:   "push [dir]",
	Short: "Upload local slide content to the configured Redis store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd, args)
		if err != nil {
			return err
		}
		defer rt.Close()

		return cli.Push(cmd.Context(), rt, cmd.OutOrStdout())
	},
}

func init() {
	pathsCmd.Flags().IntP("version", "v", 0, "Version used in presentation names")
	mermaidCmd.Flags().String("path", "", "Path to highlight, e.g. A,B,D")
	validateCmd.Flags().Bool("strict", false, "Exit with an error when warnings are found")
	previewCmd.Flags().IntP("version", "v", 0, "Content version to preview")
	previewCmd.Flags().String("path", "", "Path to preview, e.g. A,B,D (default: first path)")

	rootCmd.AddCommand(pathsCmd, mermaidCmd, validateCmd, previewCmd, pushCmd)
}
