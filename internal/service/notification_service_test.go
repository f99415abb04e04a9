package service_test

import (
	"context"
	"testing"

	"docportal/internal/apperr"
	"docportal/internal/repository"
	"docportal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationService_ApprovalFeedsAlerts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	db := e.docs.Database
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db, zap.NewNop()), zap.NewNop())
	svc := service.NewDocumentService(e.docs, e.users, e.blobs, notifications, e.queue, service.LifecycleOptions{}, zap.NewNop())

	doc, err := svc.Create(ctx, service.CreateDocumentInput{Title: "Rota", Category: "Operations", Data: []byte("x")})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, doc.ID, []string{"emp-1"}, nil)
	require.NoError(t, err)

	list, err := notifications.List(ctx, "emp-1", true, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New Document Assigned", list[0].Title)
	assert.Equal(t, "You have been assigned a new document: Rota", list[0].Message)
	assert.Equal(t, "document", list[0].Category)

	assert.ErrorIs(t, notifications.MarkRead(ctx, "emp-2", list[0].ID), apperr.ErrNotFound)
	require.NoError(t, notifications.MarkRead(ctx, "emp-1", list[0].ID))

	unread, err := notifications.List(ctx, "emp-1", true, 10)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
