package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/deckflow/pkg/adapters/memory"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RecordsCopies(t *testing.T) {
	r := memory.NewRenderer()
	a := &domain.Artifact{
		FileName: "wf_v1.html",
		Slides:   []domain.Slide{{StepID: "A", Body: "x"}},
		Links:    map[string][]string{"A": {}},
	}

	require.NoError(t, r.Render(context.Background(), "out", a))
	a.Slides[0].Body = "mutated"

	got, ok := r.Artifact("wf_v1.html")
	require.True(t, ok)
	assert.Equal(t, "x", got.Slides[0].Body)
	assert.Equal(t, []string{"wf_v1.html"}, r.FileNames())
}

func TestRenderer_FailOn(t *testing.T) {
	r := memory.NewRenderer()
	boom := errors.New("boom")
	r.FailOn("bad.html", boom)

	err := r.Render(context.Background(), "out", &domain.Artifact{FileName: "bad.html"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.FileNames())
}

func TestRenderer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := memory.NewRenderer().Render(ctx, "out", &domain.Artifact{FileName: "x.html"})
	assert.ErrorIs(t, err, context.Canceled)
}
