package handlers

import (
	"docportal/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FileHandler struct {
	store  *storage.LocalStore
	logger *zap.Logger
}

func NewFileHandler(store *storage.LocalStore, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		store:  store,
		logger: logger,
	}
}

// ServeFile godoc
// @Summary Download a document file through a signed link
// @Tags files
// @Param ref path string true "File reference"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} map[string]string
// @Router /files/{ref} [get]
func (h *FileHandler) ServeFile(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if err := h.store.VerifyToken(ref, c.Query("token")); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Link is invalid or has expired",
		})
	}

	path, err := h.store.Path(ref)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}
	return c.SendFile(path)
}
