package handlers

import (
	"docportal/internal/dto"
	"docportal/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EmployeeHandler struct {
	docService *service.DocumentService
	logger     *zap.Logger
}

func NewEmployeeHandler(docService *service.DocumentService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListEmployees godoc
// @Summary List assignable employees
// @Description Active employees sorted by name
// @Tags review
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} map[string]string
// @Router /api/v1/employees [get]
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	users, err := h.docService.ListEmployees(c.Context())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list employees")
	}
	return c.JSON(dto.NewUserList(users))
}
