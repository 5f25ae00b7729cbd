package html_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/deckflow/pkg/adapters/html"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearArtifact() *domain.Artifact {
	return &domain.Artifact{
		Name:     "Onboarding_v2_A-B-D",
		FileName: "Onboarding_v2_A-B-D.html",
		Mode:     domain.ModeLinear,
		Version:  2,
		Path:     domain.Path{"A", "B", "D"},
		Slides: []domain.Slide{
			{StepID: "A", Version: 2, Title: "Welcome", Body: "# Welcome\n\nHello **team**"},
			{StepID: "B", Version: 1, Body: "Second"},
			{StepID: "D", Version: 0, Body: "Done <script>alert(1)</script>"},
		},
	}
}

func TestRenderer_Linear(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, html.New().Render(context.Background(), dir, linearArtifact()))

	data, err := os.ReadFile(filepath.Join(dir, "Onboarding_v2_A-B-D.html"))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<title>Onboarding_v2_A-B-D</title>")
	assert.Contains(t, out, "<h1>Welcome</h1>")
	assert.Contains(t, out, "<strong>team</strong>")
	assert.Contains(t, out, `<a href="#slide-1">Next</a>`)
	assert.Contains(t, out, `<a href="#slide-0">Previous</a>`)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Equal(t, 3, strings.Count(out, `<section class="slide"`))
}

func TestRenderer_FirstSlideHiddenWhenAnotherIsTargeted(t *testing.T) {
	data, err := html.New().Bytes(linearArtifact())
	require.NoError(t, err)
	out := string(data)

	// The first slide shows by default and gives way to any targeted slide.
	assert.Contains(t, out, "section.slide:first-of-type, section.slide:target { display: block; }")
	assert.Contains(t, out, "body:has(section.slide:target) section.slide:first-of-type:not(:target) { display: none; }")
	assert.NotContains(t, out, "section.slide:target ~ section.slide:first-of-type")
}

func TestRenderer_GraphChoices(t *testing.T) {
	a := &domain.Artifact{
		Name:     "Onboarding_v2",
		FileName: "Onboarding_v2.html",
		Mode:     domain.ModeGraph,
		Slides: []domain.Slide{
			{StepID: "A", Body: "start"},
			{StepID: "B", Title: "Path B", Body: "b"},
			{StepID: "C", Body: "c"},
			{StepID: "D", Body: "d"},
		},
		Links: map[string][]string{"A": {"B", "C"}, "B": {"D"}, "C": {"D"}, "D": {}},
	}

	out, err := html.New().Bytes(a)
	require.NoError(t, err)

	assert.Contains(t, string(out), `<a href="#slide-1">Path B</a>`)
	assert.Contains(t, string(out), `<a href="#slide-2">C</a>`)
	assert.Equal(t, 2, strings.Count(string(out), `<a href="#slide-3">D</a>`))
	assert.NotContains(t, string(out), "Previous")
}

func TestRenderer_GraphUnknownLink(t *testing.T) {
	a := &domain.Artifact{
		FileName: "x.html",
		Mode:     domain.ModeGraph,
		Slides:   []domain.Slide{{StepID: "A"}},
		Links:    map[string][]string{"A": {"ghost"}},
	}
	_, err := html.New().Bytes(a)
	assert.Error(t, err)
}

func TestRenderer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	err := html.New().Render(ctx, dir, linearArtifact())
	assert.ErrorIs(t, err, context.Canceled)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
