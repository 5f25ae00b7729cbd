package tests

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/aretw0/deckflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContentStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.ContentStore.
// The store must already hold exactly the slides in seeded.
func ContentStoreContractTest(t *testing.T, store ports.ContentStore, seeded []domain.Slide) {
	t.Helper()
	ctx := context.Background()

	byStep := make(map[string][]int)
	for _, s := range seeded {
		byStep[s.StepID] = append(byStep[s.StepID], s.Version)
	}

	t.Run("Versions_Sorted", func(t *testing.T) {
		for stepID, want := range byStep {
			sort.Ints(want)
			got, err := store.Versions(ctx, stepID)
			require.NoError(t, err)
			assert.Equal(t, want, got, "versions of %s", stepID)
		}
	})

	t.Run("Versions_UnknownStep", func(t *testing.T) {
		got, err := store.Versions(ctx, "non-existent-step")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Slide_Success", func(t *testing.T) {
		for _, want := range seeded {
			got, err := store.Slide(ctx, want.StepID, want.Version)
			require.NoError(t, err, "slide %s@%d", want.StepID, want.Version)
			assert.Equal(t, want.StepID, got.StepID)
			assert.Equal(t, want.Version, got.Version)
			assert.Equal(t, want.Body, got.Body)
			if want.Title != "" {
				assert.Equal(t, want.Title, got.Title)
			}
		}
	})

	t.Run("Slide_NotFound", func(t *testing.T) {
		_, err := store.Slide(ctx, "non-existent-step", 1)
		assert.ErrorIs(t, err, domain.ErrSlideNotFound)

		for stepID, versions := range byStep {
			missing := versions[len(versions)-1] + 1000
			_, err := store.Slide(ctx, stepID, missing)
			assert.ErrorIs(t, err, domain.ErrSlideNotFound)
		}
	})
}
