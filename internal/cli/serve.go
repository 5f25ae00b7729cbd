package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/deckflow/internal/config"
	httpAdapter "github.com/aretw0/deckflow/pkg/adapters/http"
	"github.com/aretw0/deckflow/pkg/adapters/redis"
	"github.com/aretw0/deckflow/pkg/keylock"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr   string
	Output string
}

// Serve runs the HTTP API until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, rt *Runtime, opts ServeOptions, out io.Writer) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	outputDir := opts.Output
	if outputDir == "" {
		outputDir = resolve(rt.Options.RepoPath, rt.Config.Output)
	}

	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(rt.Logger),
		httpAdapter.WithMetrics(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})),
	}
	lockOpts := []keylock.Option{keylock.WithLogger(rt.Logger)}
	if rt.Config.Content.Backend == config.BackendRedis {
		// Replicas sharing a Redis content store also share the generation lock.
		locker := redis.NewLocker(newRedisStore(rt.Config).Client(), rt.Config.Content.Redis.Prefix)
		lockOpts = append(lockOpts, keylock.WithLocker(locker))
	}
	handlerOpts = append(handlerOpts,
		httpAdapter.WithLocker(keylock.NewManager(lockOpts...), httpAdapter.DefaultLockTTL))

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: httpAdapter.NewHandler(engine, outputDir, handlerOpts...),
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "Starting deckflow server on %s\n", srv.Addr)
		fmt.Fprintf(out, "Writing presentations to: %s\n", outputDir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		fmt.Fprintln(out, "\nStart shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(out, "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Fprintln(out, "deckflow server stopped gracefully")
		return nil
	}
}
