package cli

import (
	"context"
	"fmt"
	"io"

	loamAdapter "github.com/aretw0/deckflow/pkg/adapters/loam"
)

// Push uploads every slide of the local content directory to the configured
// Redis store, so servers using the Redis backend see the same content.
func Push(ctx context.Context, rt *Runtime, out io.Writer) error {
	local, err := loamAdapter.Open(resolve(rt.Options.RepoPath, rt.Config.Content.Dir))
	if err != nil {
		return err
	}

	slides, err := local.Slides(ctx)
	if err != nil {
		return err
	}

	remote := newRedisStore(rt.Config)
	defer remote.Client().Close()

	for _, s := range slides {
		if err := remote.Put(ctx, s); err != nil {
			return fmt.Errorf("failed to push %s@%d: %w", s.StepID, s.Version, err)
		}
		rt.Logger.Debug("slide pushed", "step", s.StepID, "version", s.Version)
	}

	fmt.Fprintf(out, "pushed %d slides to %s\n", len(slides), rt.Config.Content.Redis.Addr)
	return nil
}
