package handlers

import (
	"errors"

	"docportal/internal/apperr"
	"docportal/internal/models"
	"docportal/internal/service"
	"docportal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps application errors to HTTP statuses. Client errors carry
// the error text; anything else is logged and answered with fallback.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, apperr.ErrStorage):
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err), zap.String("path", c.Path()))
		if status == fiber.StatusBadGateway {
			return c.Status(status).JSON(fiber.Map{
				"error": "File storage is unavailable, please retry",
			})
		}
		return c.Status(status).JSON(fiber.Map{
			"error": fallback,
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getViewer(c *fiber.Ctx) (service.Viewer, error) {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok || userID == "" {
		return service.Viewer{}, fiber.ErrUnauthorized
	}
	role, _ := c.Locals(middleware.LocalRole).(string)
	return service.Viewer{UserID: userID, Role: models.Role(role)}, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
