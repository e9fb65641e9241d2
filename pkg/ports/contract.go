package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/domain"
)

func contractProgress(sessionID string) *domain.Progress {
	tour := &domain.Tour{
		ID: "contract-tour",
		Steps: []domain.Step{
			domain.VisibleComponent{Title: "first"},
			domain.VisibleComponent{Title: "second"},
		},
	}
	return domain.NewProgress(sessionID, tour)
}

// RunProgressStoreContract runs a suite of tests to verify that a ProgressStore
// implementation adheres to the defined interface contract.
func RunProgressStoreContract(t *testing.T, store ProgressStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		progress := contractProgress(sessionID)
		progress.StepIndex = 1
		progress.StepTitle = "second"

		err := store.Save(ctx, sessionID, progress)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, "contract-tour", loaded.TourID)
		assert.Equal(t, 1, loaded.StepIndex)
		assert.Equal(t, "second", loaded.StepTitle)
		assert.Equal(t, 2, loaded.StepCount)
		assert.Equal(t, domain.StatusActive, loaded.Status)
		assert.WithinDuration(t, progress.UpdatedAt, loaded.UpdatedAt, time.Second)
	})

	t.Run("Overwrite", func(t *testing.T) {
		progress := contractProgress(sessionID)
		progress.Status = domain.StatusCompleted
		require.NoError(t, store.Save(ctx, sessionID, progress))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
		assert.True(t, loaded.Terminal())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractProgress(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractProgress(id1))
		_ = store.Save(ctx, id2, contractProgress(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
