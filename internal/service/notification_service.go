package service

import (
	"context"

	"docportal/internal/models"

	"go.uber.org/zap"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

// NotificationService stores notifications for the alerts page. There is no
// push delivery; clients poll List.
type NotificationService struct {
	repo   NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger,
	}
}

func (s *NotificationService) Send(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.logger.Debug("Notification stored",
		zap.String("recipient_id", n.RecipientID),
		zap.String("title", n.Title),
	)
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListForRecipient(ctx, userID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}
