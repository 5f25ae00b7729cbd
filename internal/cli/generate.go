package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/deckflow"
	"github.com/aretw0/deckflow/internal/adapters/file"
	"github.com/aretw0/deckflow/internal/presentation/tui"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/naming"
)

// GenerateOptions selects what a generation run produces.
type GenerateOptions struct {
	Mode    domain.Mode
	Version int
	// Output overrides the configured output directory.
	Output string
	// Manifest writes the run summary next to the presentations.
	Manifest bool
	Watch    bool
}

// Generate renders presentations once, or on every content change with Watch.
func Generate(ctx context.Context, rt *Runtime, opts GenerateOptions, out io.Writer) error {
	engine, err := createEngine(rt)
	if err != nil {
		return err
	}

	outputDir := opts.Output
	if outputDir == "" {
		outputDir = resolve(rt.Options.RepoPath, rt.Config.Output)
	}

	if !opts.Watch {
		summary, err := generateOnce(ctx, engine, opts, outputDir)
		if summary != nil {
			PrintSummary(out, summary)
		}
		if err != nil {
			return err
		}
		return summary.Err()
	}

	return runWatch(ctx, rt, engine, opts, outputDir, out)
}

func generateOnce(ctx context.Context, engine *deckflow.Engine, opts GenerateOptions, outputDir string) (*domain.Summary, error) {
	var (
		summary *domain.Summary
		err     error
	)
	switch opts.Mode {
	case domain.ModeLinear:
		summary, err = engine.GenerateLinear(ctx, opts.Version, outputDir)
	case domain.ModeGraph:
		summary, err = engine.GenerateGraph(ctx, opts.Version, outputDir)
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if summary == nil {
		return nil, err
	}

	if opts.Manifest {
		if werr := file.WriteJSON(outputDir, ManifestName(summary), summary); werr != nil {
			return summary, fmt.Errorf("failed to write manifest: %w", werr)
		}
	}
	return summary, err
}

// ManifestName names the summary file of a run: {workflow}_v{version}.{mode}.json.
func ManifestName(s *domain.Summary) string {
	return naming.GraphStem(s.Workflow, s.Version) + "." + string(s.Mode) + ".json"
}

// PrintSummary writes one line per artifact.
func PrintSummary(w io.Writer, s *domain.Summary) {
	if len(s.Outcomes) == 0 {
		fmt.Fprintf(w, "%s v%d (%s): nothing to render\n", s.Workflow, s.Version, s.Mode)
		return
	}
	for _, o := range s.Outcomes {
		if o.OK() {
			fmt.Fprintf(w, "  ok    %s\n", o.Artifact)
		} else {
			fmt.Fprintf(w, "  fail  %s: %v\n", o.Artifact, o.Err)
		}
	}
	fmt.Fprintf(w, "%s v%d (%s): %d rendered, %d failed\n",
		s.Workflow, s.Version, s.Mode, len(s.Succeeded()), len(s.Failed()))
}

// runWatch regenerates on every content change until ctx is done.
func runWatch(ctx context.Context, rt *Runtime, engine *deckflow.Engine, opts GenerateOptions, outputDir string, out io.Writer) error {
	tui.PrintBanner(out)

	events, err := engine.Watch(ctx)
	if err != nil {
		return err
	}
	workflowEvents, err := watchFile(ctx, resolve(rt.Options.RepoPath, rt.Config.Workflow))
	if err != nil {
		return err
	}

	rt.Logger.Info("Starting Watcher", "path", rt.Options.RepoPath, "output", outputDir)
	printSystemMessage(out, "Watching '%s' for slide and workflow changes.", rt.Options.RepoPath)

	regenerate := func() {
		if err := engine.Reload(ctx); err != nil {
			rt.Logger.Error("Workflow reload failed", "err", err)
			return
		}
		summary, err := generateOnce(ctx, engine, opts, outputDir)
		if summary != nil {
			PrintSummary(out, summary)
		}
		if err != nil {
			rt.Logger.Error("Generation failed", "err", err)
		}
	}

	regenerate()
	for {
		select {
		case <-ctx.Done():
			printSystemMessage(out, "Watcher stopped.")
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			printSystemMessage(out, "Change detected in '%s'.", event)
			// Let the file system settle before re-reading.
			time.Sleep(100 * time.Millisecond)
			regenerate()
		case name, ok := <-workflowEvents:
			if !ok {
				workflowEvents = nil
				continue
			}
			printSystemMessage(out, "Workflow '%s' changed.", name)
			time.Sleep(100 * time.Millisecond)
			regenerate()
		}
	}
}
