package handlers

import (
	"docportal/internal/dto"
	"docportal/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications godoc
// @Summary List the current user's notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Limit" default(50)
// @Security Bearer
// @Success 200 {array} dto.NotificationResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	viewer, err := getViewer(c)
	if err != nil {
		return unauthorized(c)
	}

	notifications, err := h.notificationService.List(c.Context(), viewer.UserID, c.QueryBool("unread", false), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list notifications")
	}
	return c.JSON(dto.NewNotificationList(notifications))
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	viewer, err := getViewer(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.notificationService.MarkRead(c.Context(), viewer.UserID, c.Params("id")); err != nil {
		return respondError(c, h.logger, err, "Failed to update notification")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
