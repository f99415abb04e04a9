package repository_test

import (
	"context"
	"testing"
	"time"

	"docportal/internal/apperr"
	"docportal/internal/models"
	"docportal/internal/repository"
	"docportal/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifications_ListAndMarkRead(t *testing.T) {
	repo := repository.NewNotificationRepository(testutil.NewTestDatabase(t), zap.NewNop())
	ctx := context.Background()

	for i, id := range []string{"n-1", "n-2"} {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			ID:          id,
			RecipientID: "emp-1",
			Title:       "New Document Assigned",
			Message:     "You have been assigned a new document",
			Category:    "document",
			Priority:    models.PriorityMedium,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := repo.ListForRecipient(ctx, "emp-1", false, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID)

	require.NoError(t, repo.MarkRead(ctx, "n-1", "emp-1"))
	assert.ErrorIs(t, repo.MarkRead(ctx, "n-2", "emp-9"), apperr.ErrNotFound)

	unread, err := repo.ListForRecipient(ctx, "emp-1", true, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n-2", unread[0].ID)
}
