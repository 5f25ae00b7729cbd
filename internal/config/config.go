// Package config loads deckflow run settings from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Content backends.
const (
	BackendLoam  = "loam"
	BackendRedis = "redis"
)

// Output formats.
const (
	RendererHTML     = "html"
	RendererMarkdown = "markdown"
)

// Config holds every setting of a run.
type Config struct {
	// Workflow is the workflow definition file, relative to the repo dir.
	Workflow string        `mapstructure:"workflow"`
	Content  ContentConfig `mapstructure:"content"`
	Output   string        `mapstructure:"output"`
	Renderer string        `mapstructure:"renderer"`
	Workers  int           `mapstructure:"workers"`
	Log      LogConfig     `mapstructure:"log"`
	Server   ServerConfig  `mapstructure:"server"`
}

type ContentConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Redis    RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Dir enables the per-run log file when set.
	Dir string `mapstructure:"dir"`
}

// ServerConfig configures "deckflow serve", which also exposes /metrics.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Workflow: "workflow.yaml",
		Content: ContentConfig{
			Backend: BackendLoam,
			Dir:     "slides",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "deckflow:content:",
			},
		},
		Output:   "out",
		Renderer: RendererHTML,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// ConfigPath normalizes a config file name to a .yml extension,
// leaving .yml and .yaml files untouched.
func ConfigPath(file string) string {
	ext := filepath.Ext(file)
	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		return file
	}
	return strings.TrimSuffix(file, ext) + ".yml"
}

// Load reads the config file over the defaults.
// A missing file is not an error: the defaults are returned and the miss is logged.
func Load(file string, logger *slog.Logger) (*Config, error) {
	cfg := Default()
	if file == "" {
		return cfg, nil
	}

	path := ConfigPath(file)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if logger != nil {
			logger.Info("config file not found, using defaults", "path", path)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode merges YAML data into cfg.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Content.Backend {
	case BackendLoam, BackendRedis:
	default:
		return fmt.Errorf("unknown content backend %q", c.Content.Backend)
	}
	switch c.Renderer {
	case RendererHTML, RendererMarkdown:
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
