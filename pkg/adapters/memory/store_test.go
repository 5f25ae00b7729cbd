package memory_test

import (
	"testing"

	"github.com/aretw0/deckflow/pkg/adapters/memory"
	"github.com/aretw0/deckflow/pkg/domain"
	contract "github.com/aretw0/deckflow/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentStore_Contract(t *testing.T) {
	seed := []domain.Slide{
		{StepID: "intro", Version: 3, Title: "Intro", Body: "# Hello v3"},
		{StepID: "intro", Version: 1, Title: "Intro", Body: "# Hello v1"},
		{StepID: "outro", Version: 2, Body: "Bye"},
	}

	store, err := memory.NewFromSlides(seed...)
	require.NoError(t, err)

	contract.ContentStoreContractTest(t, store, seed)
}

func TestNewFromSlides_Invalid(t *testing.T) {
	_, err := memory.NewFromSlides(domain.Slide{Version: 1})
	assert.Error(t, err)

	_, err = memory.NewFromSlides(domain.Slide{StepID: "a", Version: -1})
	assert.Error(t, err)
}

func TestContentStore_PutReplaces(t *testing.T) {
	store := memory.NewContentStore()
	store.Put(domain.Slide{StepID: "a", Version: 1, Body: "old"})
	store.Put(domain.Slide{StepID: "a", Version: 1, Body: "new"})

	s, err := store.Slide(t.Context(), "a", 1)
	require.NoError(t, err)
	assert.Equal(t, "new", s.Body)
}
