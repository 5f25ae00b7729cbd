package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/deckflow/internal/config"
	"github.com/aretw0/deckflow/internal/logging"
	"github.com/aretw0/deckflow/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Options carries the persistent flags of every command.
type Options struct {
	RepoPath   string
	ConfigFile string
	Debug      bool
}

// Runtime is the process-wide state built once per command.
type Runtime struct {
	Options  Options
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	cleanup func() error
}

// Bootstrap loads the configuration and sets up logging and metrics.
// Relative config paths are resolved against the repo path.
func Bootstrap(opts Options) (*Runtime, error) {
	rt := &Runtime{Options: opts, cleanup: func() error { return nil }}

	cfgFile := opts.ConfigFile
	if cfgFile != "" {
		cfgFile = resolve(opts.RepoPath, cfgFile)
	}

	// Config errors are logged with a console logger, the configured one does not exist yet.
	console := createLogger(opts.Debug, "info", "text")
	cfg, err := config.Load(cfgFile, console)
	if err != nil {
		return nil, err
	}
	rt.Config = cfg

	if cfg.Log.Dir != "" {
		level := logging.ParseLevel(cfg.Log.Level)
		if opts.Debug {
			level = slog.LevelDebug
		}
		logger, cleanup, err := logging.Bootstrap(resolve(opts.RepoPath, cfg.Log.Dir), cfgFile, level)
		if err != nil {
			return nil, err
		}
		rt.Logger = logger
		rt.cleanup = cleanup
	} else {
		rt.Logger = createLogger(opts.Debug, cfg.Log.Level, cfg.Log.Format)
	}

	rt.Registry = prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(rt.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	rt.Metrics = metrics

	return rt, nil
}

// Close releases the log file, if any.
func (rt *Runtime) Close() error {
	return rt.cleanup()
}

// createLogger configures the console logger. --debug overrides the configured level.
func createLogger(debug bool, level, format string) *slog.Logger {
	if debug {
		return logging.NewWithFormat(os.Stderr, slog.LevelDebug, format)
	}
	return logging.NewWithFormat(os.Stderr, logging.ParseLevel(level), format)
}

// resolve makes path relative to the repo unless it is absolute.
func resolve(repoPath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repoPath, path)
}
