package dsl

import (
	"testing"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Diamond(t *testing.T) {
	b := New("Onboarding")

	b.Add("A").Title("Welcome").Go("B", "C")
	b.Add("B").Go("D")
	b.Add("C").Go("D").
		Add("D").Terminal()

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "Onboarding", g.Name())
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.StepIDs())

	a, ok := g.Step("A")
	require.True(t, ok)
	assert.Equal(t, "Welcome", a.Title)
	assert.Equal(t, []string{"B", "C"}, a.Next)

	assert.Len(t, g.AllPaths(), 2)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New("wf")
	b.Add("A").Go("B")
	b.Add("A").Go("C")
	b.Add("B")
	b.Add("C")

	g := b.MustBuild()
	a, _ := g.Step("A")
	assert.Equal(t, []string{"B", "C"}, a.Next)
}

func TestBuilder_DanglingEdge(t *testing.T) {
	b := New("wf")
	b.Add("A").Go("missing")

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)
	assert.Panics(t, func() { b.MustBuild() })
}

func TestBuilder_Entry(t *testing.T) {
	b := New("loop").Entry("A")
	b.Add("A").Go("B")
	b.Add("B").Go("A", "C")
	b.Add("C")

	g := b.MustBuild()
	assert.Equal(t, []domain.Path{{"A", "B", "C"}}, g.AllPaths())
}
