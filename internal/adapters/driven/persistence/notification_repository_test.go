package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensitive-field-gate/internal/core/domain"
)

func TestNotificationRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(setupTestDB(t))
	notification := domain.DefaultPolicy().Notification("alice")

	require.NoError(t, repo.Save(ctx, "n-1", notification))
	require.NoError(t, repo.Save(ctx, "n-2", notification))
	require.NoError(t, repo.Save(ctx, "n-3", domain.DefaultPolicy().Notification("bob")))

	stored, err := repo.ListForRecipient(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, n := range stored {
		assert.Equal(t, notification, n.AppNotification)
		_, err := time.Parse(time.RFC3339, n.CreatedAt)
		assert.NoError(t, err)
	}
	assert.ElementsMatch(t, []string{"n-1", "n-2"}, []string{stored[0].ID, stored[1].ID})

	none, err := repo.ListForRecipient(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotificationRepository_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(setupTestDB(t))
	notification := domain.DefaultPolicy().Notification("alice")

	require.NoError(t, repo.Save(ctx, "n-1", notification))
	assert.Error(t, repo.Save(ctx, "n-1", notification))
}
