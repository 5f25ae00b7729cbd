package cli

import (
	"fmt"

	"github.com/aretw0/deckflow"
	"github.com/aretw0/deckflow/internal/config"
	"github.com/aretw0/deckflow/pkg/adapters/cache"
	loamAdapter "github.com/aretw0/deckflow/pkg/adapters/loam"
	"github.com/aretw0/deckflow/pkg/adapters/redis"
	"github.com/aretw0/deckflow/pkg/adapters/workflowfile"
	"github.com/aretw0/deckflow/pkg/observability"
	"github.com/aretw0/deckflow/pkg/ports"
	"github.com/aretw0/deckflow/pkg/registry"
)

// createEngine initializes a deckflow engine from the runtime configuration.
func createEngine(rt *Runtime) (*deckflow.Engine, error) {
	cfg := rt.Config

	store, err := newContentStore(cfg, rt.Options.RepoPath)
	if err != nil {
		return nil, err
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return nil, err
	}

	hooks := rt.Metrics.Hooks()
	if rt.Options.Debug {
		hooks = hooks.Merge(observability.LoggingHooks(rt.Logger))
	}

	engine, err := deckflow.New(rt.Options.RepoPath,
		deckflow.WithLoader(workflowfile.New(resolve(rt.Options.RepoPath, cfg.Workflow))),
		deckflow.WithContentStore(store),
		deckflow.WithRenderer(renderer),
		deckflow.WithLogger(rt.Logger),
		deckflow.WithLifecycleHooks(hooks),
		deckflow.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing deckflow: %w", err)
	}
	return engine, nil
}

// newContentStore opens the configured backend, wrapped in a cache when a TTL is set.
func newContentStore(cfg *config.Config, repoPath string) (ports.ContentStore, error) {
	var store ports.ContentStore

	switch cfg.Content.Backend {
	case config.BackendLoam:
		s, err := loamAdapter.Open(resolve(repoPath, cfg.Content.Dir))
		if err != nil {
			return nil, err
		}
		store = s
	case config.BackendRedis:
		store = newRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.Content.Backend)
	}

	if cfg.Content.CacheTTL > 0 {
		store = cache.New(store, cfg.Content.CacheTTL)
	}
	return store, nil
}

func newRedisStore(cfg *config.Config) *redis.Store {
	r := cfg.Content.Redis
	return redis.New(r.Addr, r.Password, r.DB, redis.WithPrefix(r.Prefix))
}

func newRenderer(cfg *config.Config) (ports.Renderer, error) {
	return registry.Default().New(cfg.Renderer)
}
