package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/deckflow/internal/presentation/tui"
	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_PlainOutput(t *testing.T) {
	a := &domain.Artifact{
		Name:    "Onboarding_v1_A-B",
		Mode:    domain.ModeLinear,
		Version: 1,
		Slides: []domain.Slide{
			{StepID: "A", Version: 1, Title: "Welcome", Body: "Hello **there**"},
			{StepID: "B", Version: 0, Body: "# Done"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tui.Preview(&buf, a))

	out := buf.String()
	assert.Contains(t, out, "Onboarding_v1_A-B (linear, v1)")
	assert.Contains(t, out, "[1/2] A v1")
	assert.Contains(t, out, "[2/2] B v0")
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "there")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintBanner_NoColorWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)

	assert.NotEmpty(t, buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.False(t, tui.IsTerminal(&buf))
}
