package repository

import (
	"context"
	"fmt"

	"docportal/internal/apperr"
	"docportal/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var notificationColumns = []string{
	"id", "recipient_id", "title", "message", "category", "priority", "is_read", "created_at",
}

type NotificationRepository struct {
	*Database
	logger *zap.Logger
}

func NewNotificationRepository(db *Database, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		Database: db,
		logger:   logger,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := r.sb.Insert("notifications").
		Columns(notificationColumns...).
		Values(n.ID, n.RecipientID, n.Title, n.Message, n.Category, string(n.Priority), n.Read, n.CreatedAt)

	if _, err := exec(ctx, r.db, query); err != nil {
		return fmt.Errorf("creating notification for %s: %w", n.RecipientID, err)
	}
	return nil
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if unreadOnly {
		query = query.Where(squirrel.Eq{"is_read": false})
	}

	notifications := []*models.Notification{}
	if err := selectAll(ctx, r.db, &notifications, query); err != nil {
		return nil, fmt.Errorf("listing notifications for %s: %w", recipientID, err)
	}
	return notifications, nil
}

// MarkRead only touches notifications owned by recipientID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	res, err := exec(ctx, r.db, r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "recipient_id": recipientID}))
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("notification %s", id)
	}
	return nil
}
