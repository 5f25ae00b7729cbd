package main

import (
	"fmt"
	"os"

	"github.com/aretw0/deckflow/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deckflow",
	Short: "deckflow turns branching workflows into versioned slide presentations",
	Long: `deckflow reads a workflow graph and its versioned slide content, and renders
either one presentation per path (linear) or one navigable presentation (graph).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the deckflow project")
	rootCmd.PersistentFlags().String("config", "deckflow.yml", "Config file, relative to --dir")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// bootstrap builds the runtime from the persistent flags.
// A positional argument is taken as the project dir when --dir is not set.
func bootstrap(cmd *cobra.Command, args []string) (*cli.Runtime, error) {
	repoPath, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		repoPath = args[0]
	}
	configFile, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	return cli.Bootstrap(cli.Options{
		RepoPath:   repoPath,
		ConfigFile: configFile,
		Debug:      debug,
	})
}
