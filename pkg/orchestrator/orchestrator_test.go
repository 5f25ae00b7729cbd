package orchestrator_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/deckflow/pkg/adapters/memory"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/orchestrator"
	"github.com/aretw0/deckflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onboarding(t *testing.T) *domain.Graph {
	t.Helper()
	g, err := domain.NewGraph("Onboarding", []domain.Step{
		{ID: "A", Next: []string{"B", "C"}},
		{ID: "B", Next: []string{"D"}},
		{ID: "C", Next: []string{"D"}},
		{ID: "D"},
	})
	require.NoError(t, err)
	return g
}

func fullStore(t *testing.T) *memory.ContentStore {
	t.Helper()
	store, err := memory.NewFromSlides(
		domain.Slide{StepID: "A", Version: 1, Body: "A1"},
		domain.Slide{StepID: "A", Version: 2, Body: "A2"},
		domain.Slide{StepID: "B", Version: 1, Body: "B1"},
		domain.Slide{StepID: "C", Version: 2, Body: "C2"},
		domain.Slide{StepID: "D", Version: 0, Body: "D0"},
	)
	require.NoError(t, err)
	return store
}

func fixedRunID() string { return "run-1" }

func TestGenerateLinear_Onboarding(t *testing.T) {
	renderer := memory.NewRenderer()
	o := orchestrator.New(fullStore(t), renderer, orchestrator.WithRunIDGenerator(fixedRunID))

	summary, err := o.GenerateLinear(context.Background(), onboarding(t), 2, "out")
	require.NoError(t, err)
	require.NoError(t, summary.Err())

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, domain.ModeLinear, summary.Mode)
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, "Onboarding_v2_A-B-D.html", summary.Outcomes[0].Artifact)
	assert.Equal(t, domain.Path{"A", "B", "D"}, summary.Outcomes[0].Path)
	assert.Equal(t, "Onboarding_v2_A-C-D.html", summary.Outcomes[1].Artifact)

	assert.Equal(t, []string{"Onboarding_v2_A-B-D.html", "Onboarding_v2_A-C-D.html"}, renderer.FileNames())

	upper, ok := renderer.Artifact("Onboarding_v2_A-B-D.html")
	require.True(t, ok)
	assert.Equal(t, "Onboarding_v2_A-B-D", upper.Name)
	assert.Nil(t, upper.Links)

	var bodies []string
	var versions []int
	for _, s := range upper.Slides {
		bodies = append(bodies, s.Body)
		versions = append(versions, s.Version)
	}
	assert.Equal(t, []string{"A2", "B1", "D0"}, bodies)
	assert.Equal(t, []int{2, 1, 0}, versions)
}

func TestGenerateGraph_Onboarding(t *testing.T) {
	renderer := memory.NewRenderer()
	o := orchestrator.New(fullStore(t), renderer)

	summary, err := o.GenerateGraph(context.Background(), onboarding(t), 2, "out")
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, "Onboarding_v2.html", summary.Outcomes[0].Artifact)

	a, ok := renderer.Artifact("Onboarding_v2.html")
	require.True(t, ok)
	assert.Equal(t, domain.ModeGraph, a.Mode)
	assert.Equal(t, map[string][]string{
		"A": {"B", "C"},
		"B": {"D"},
		"C": {"D"},
		"D": {},
	}, a.Links)
	require.Len(t, a.Slides, 4)
	assert.Equal(t, "A", a.Slides[0].StepID)
	assert.Equal(t, "D", a.Slides[3].StepID)
}

func TestGenerateLinear_MissingVersionIsIsolated(t *testing.T) {
	store, err := memory.NewFromSlides(
		domain.Slide{StepID: "A", Version: 1, Body: "A1"},
		domain.Slide{StepID: "B", Version: 3, Body: "B3"}, // too new for v2
		domain.Slide{StepID: "C", Version: 2, Body: "C2"},
		domain.Slide{StepID: "D", Version: 1, Body: "D1"},
	)
	require.NoError(t, err)

	renderer := memory.NewRenderer()
	o := orchestrator.New(store, renderer)

	summary, err := o.GenerateLinear(context.Background(), onboarding(t), 2, "out")
	require.NoError(t, err)

	failed := summary.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "Onboarding_v2_A-B-D.html", failed[0].Artifact)
	assert.ErrorIs(t, failed[0].Err, domain.ErrNoVersionAvailable)

	ok := summary.Succeeded()
	require.Len(t, ok, 1)
	assert.Equal(t, "Onboarding_v2_A-C-D.html", ok[0].Artifact)

	// No partial artifact for the failed path.
	assert.Equal(t, []string{"Onboarding_v2_A-C-D.html"}, renderer.FileNames())
	assert.ErrorIs(t, summary.Err(), domain.ErrNoVersionAvailable)
}

func TestGenerateLinear_NameCollisionFailsBothPaths(t *testing.T) {
	g, err := domain.NewGraph("W", []domain.Step{
		{ID: "a", Next: []string{"b"}},
		{ID: "b"},
		{ID: "a-b"},
		{ID: "c"},
	})
	require.NoError(t, err)

	store, err := memory.NewFromSlides(
		domain.Slide{StepID: "a", Version: 1},
		domain.Slide{StepID: "b", Version: 1},
		domain.Slide{StepID: "a-b", Version: 1},
		domain.Slide{StepID: "c", Version: 1},
	)
	require.NoError(t, err)

	renderer := memory.NewRenderer()
	o := orchestrator.New(store, renderer)

	summary, err := o.GenerateLinear(context.Background(), g, 1, "out")
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 3)

	for _, o := range summary.Outcomes[:2] {
		assert.Equal(t, "W_v1_a-b.html", o.Artifact)
		assert.ErrorIs(t, o.Err, domain.ErrNameCollision)

		var collision *domain.NameCollisionError
		require.ErrorAs(t, o.Err, &collision)
		assert.Equal(t, []domain.Path{{"a", "b"}, {"a-b"}}, collision.Paths)
	}
	assert.Equal(t, domain.Path{"a", "b"}, summary.Outcomes[0].Path)
	assert.Equal(t, domain.Path{"a-b"}, summary.Outcomes[1].Path)
	assert.True(t, summary.Outcomes[2].OK())

	// Only the unambiguous artifact reaches the renderer.
	assert.Equal(t, []string{"W_v1_c.html"}, renderer.FileNames())
	assert.ErrorIs(t, summary.Err(), domain.ErrNameCollision)
}

func TestGenerateLinear_RenderErrorIsIsolated(t *testing.T) {
	renderer := memory.NewRenderer()
	boom := errors.New("disk full")
	renderer.FailOn("Onboarding_v2_A-C-D.html", boom)

	o := orchestrator.New(fullStore(t), renderer)
	summary, err := o.GenerateLinear(context.Background(), onboarding(t), 2, "out")
	require.NoError(t, err)

	require.Len(t, summary.Failed(), 1)
	failure := summary.Failed()[0].Err
	assert.ErrorIs(t, failure, domain.ErrRender)
	assert.ErrorIs(t, failure, boom)
	assert.Equal(t, []string{"Onboarding_v2_A-B-D.html"}, renderer.FileNames())
}

func TestGenerateGraph_FailureFailsRun(t *testing.T) {
	store, err := memory.NewFromSlides(
		domain.Slide{StepID: "A", Version: 1},
		domain.Slide{StepID: "B", Version: 1},
		domain.Slide{StepID: "C", Version: 1},
	)
	require.NoError(t, err)

	renderer := memory.NewRenderer()
	o := orchestrator.New(store, renderer)

	summary, err := o.GenerateGraph(context.Background(), onboarding(t), 2, "out")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoVersionAvailable)
	require.NotNil(t, summary)
	require.Len(t, summary.Failed(), 1)
	assert.Empty(t, renderer.FileNames())
}

func TestGenerate_InvalidInput(t *testing.T) {
	o := orchestrator.New(memory.NewContentStore(), memory.NewRenderer())

	_, err := o.GenerateLinear(context.Background(), onboarding(t), -1, "out")
	assert.ErrorIs(t, err, orchestrator.ErrInvalidVersion)

	_, err = o.GenerateGraph(context.Background(), nil, 1, "out")
	assert.Error(t, err)
}

func TestGenerateLinear_NoPaths(t *testing.T) {
	g, err := domain.NewGraph("loop", []domain.Step{
		{ID: "A", Next: []string{"B"}},
		{ID: "B", Next: []string{"A"}},
	}, "A")
	require.NoError(t, err)

	renderer := memory.NewRenderer()
	summary, err := orchestrator.New(memory.NewContentStore(), renderer).GenerateLinear(context.Background(), g, 1, "out")
	require.NoError(t, err)
	assert.Empty(t, summary.Outcomes)
}

func TestGenerateLinear_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	renderer := memory.NewRenderer()
	summary, err := orchestrator.New(fullStore(t), renderer).GenerateLinear(ctx, onboarding(t), 2, "out")
	require.NoError(t, err)
	require.Len(t, summary.Failed(), 2)
	assert.ErrorIs(t, summary.Failed()[0].Err, context.Canceled)
	assert.Empty(t, renderer.FileNames())
}

func TestGenerateLinear_Hooks(t *testing.T) {
	var mu sync.Mutex
	var started, done []string
	var failures atomic.Int32

	hooks := domain.LifecycleHooks{
		OnArtifactStart: func(_ context.Context, e *domain.ArtifactEvent) {
			mu.Lock()
			defer mu.Unlock()
			started = append(started, e.Artifact)
		},
		OnArtifactDone: func(_ context.Context, e *domain.ArtifactEvent) {
			mu.Lock()
			defer mu.Unlock()
			done = append(done, e.Artifact)
			assert.Equal(t, domain.EventArtifactDone, e.Type)
			assert.Equal(t, 3, e.Steps)
			if e.Err != nil {
				failures.Add(1)
			}
		},
	}

	renderer := memory.NewRenderer()
	renderer.FailOn("Onboarding_v2_A-B-D.html", errors.New("nope"))

	o := orchestrator.New(fullStore(t), renderer, orchestrator.WithLifecycleHooks(hooks), orchestrator.WithWorkers(1))
	_, err := o.GenerateLinear(context.Background(), onboarding(t), 2, "out")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Onboarding_v2_A-B-D.html", "Onboarding_v2_A-C-D.html"}, started)
	assert.ElementsMatch(t, started, done)
	assert.Equal(t, int32(1), failures.Load())
}

func TestGenerateLinear_Parallel(t *testing.T) {
	// Fan-out of 8 leaves rendered by 4 workers; all must render exactly once.
	steps := []domain.Step{{ID: "root"}}
	store := memory.NewContentStore()
	store.Put(domain.Slide{StepID: "root", Version: 1})
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		steps[0].Next = append(steps[0].Next, id)
		steps = append(steps, domain.Step{ID: id})
		store.Put(domain.Slide{StepID: id, Version: 1})
	}
	g, err := domain.NewGraph("fan", steps)
	require.NoError(t, err)

	var calls atomic.Int32
	inner := memory.NewRenderer()
	counting := ports.RendererFunc(func(ctx context.Context, dir string, a *domain.Artifact) error {
		calls.Add(1)
		return inner.Render(ctx, dir, a)
	})

	summary, err := orchestrator.New(store, counting, orchestrator.WithWorkers(4)).GenerateLinear(context.Background(), g, 1, "out")
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	assert.Equal(t, int32(8), calls.Load())
	assert.Len(t, inner.FileNames(), 8)
	assert.Equal(t, "fan_v1_root-a.html", summary.Outcomes[0].Artifact)
	assert.Equal(t, "fan_v1_root-h.html", summary.Outcomes[7].Artifact)
}

func TestAssemble(t *testing.T) {
	renderer := memory.NewRenderer()
	o := orchestrator.New(fullStore(t), renderer)
	ctx := context.Background()

	artifact, err := o.Assemble(ctx, onboarding(t), 2, domain.Path{"A", "C", "D"})
	require.NoError(t, err)
	assert.Equal(t, "Onboarding_v2_A-C-D.html", artifact.FileName)
	require.Len(t, artifact.Slides, 3)
	assert.Equal(t, "C2", artifact.Slides[1].Body)
	assert.Empty(t, renderer.FileNames(), "assembling never renders")

	_, err = o.Assemble(ctx, onboarding(t), 2, domain.Path{"A", "D"})
	assert.ErrorContains(t, err, `does not lead to "D"`)

	_, err = o.Assemble(ctx, onboarding(t), 2, domain.Path{"A", "X"})
	assert.Error(t, err)

	_, err = o.Assemble(ctx, onboarding(t), 2, nil)
	assert.Error(t, err)

	_, err = o.Assemble(ctx, onboarding(t), 0, domain.Path{"A", "B", "D"})
	assert.ErrorIs(t, err, domain.ErrNoVersionAvailable)
}
