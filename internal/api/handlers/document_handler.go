package handlers

import (
	"io"
	"strings"
	"time"

	"docportal/internal/dto"
	"docportal/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService *service.DocumentService
	logger     *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Description Store a document for review; text extraction, summary and translation run in the background
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file (max 10 MB)"
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param description formData string false "Description"
// @Param priority formData string false "low, medium or high" default(medium)
// @Param deadline formData string false "Deadline (YYYY-MM-DD)"
// @Security Bearer
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/documents/upload [post]
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	viewer, err := getViewer(c)
	if err != nil {
		return unauthorized(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	var deadline *time.Time
	if raw := strings.TrimSpace(c.FormValue("deadline")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Deadline must be a date in YYYY-MM-DD format",
			})
		}
		deadline = &d
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	doc, err := h.docService.Create(c.Context(), service.CreateDocumentInput{
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Priority:    c.FormValue("priority"),
		Deadline:    deadline,
		UploadedBy:  viewer.UserID,
		FileName:    file.Filename,
		FileType:    file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to upload document")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewDocumentResponse(doc, true))
}

// ListPending godoc
// @Summary List documents awaiting review
// @Description Pending and under-review documents, newest first
// @Tags review
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.DocumentResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/documents/pending [get]
func (h *DocumentHandler) ListPending(c *fiber.Ctx) error {
	docs, err := h.docService.ListPending(c.Context())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list pending documents")
	}
	return c.JSON(dto.NewDocumentList(docs, true))
}

// StartReview godoc
// @Summary Start reviewing a document
// @Tags review
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/documents/{id}/review [post]
func (h *DocumentHandler) StartReview(c *fiber.Ctx) error {
	doc, err := h.docService.StartReview(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to start review")
	}
	return c.JSON(dto.NewDocumentResponse(doc, true))
}

// Approve godoc
// @Summary Approve and assign a document
// @Description Approves the document and assigns it to the given employees. Approving an approved document adds assignees.
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.ApproveDocumentRequest true "Assignees and optional review notes"
// @Security Bearer
// @Success 200 {object} dto.ApproveDocumentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/documents/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	var req dto.ApproveDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := h.docService.Approve(c.Context(), c.Params("id"), req.EmployeeIDs, req.ReviewNotes)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to approve document")
	}

	return c.JSON(dto.ApproveDocumentResponse{
		Document:       dto.NewDocumentResponse(res.Document, true),
		NewAssignments: dto.NewAssignmentList(res.NewAssignments),
	})
}

// Reject godoc
// @Summary Reject a document
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.RejectDocumentRequest true "Review notes"
// @Security Bearer
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	var req dto.RejectDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	doc, err := h.docService.Reject(c.Context(), c.Params("id"), req.ReviewNotes)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to reject document")
	}
	return c.JSON(dto.NewDocumentResponse(doc, true))
}

// RetryEnrichment godoc
// @Summary Re-run text extraction and summarisation
// @Tags review
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 202 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id}/enrich [post]
func (h *DocumentHandler) RetryEnrichment(c *fiber.Ctx) error {
	if err := h.docService.RetryEnrichment(c.Context(), c.Params("id")); err != nil {
		return respondError(c, h.logger, err, "Failed to queue enrichment")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}

// ListAssignments godoc
// @Summary List assignees of a document
// @Tags review
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {array} dto.AssignmentResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id}/assignments [get]
func (h *DocumentHandler) ListAssignments(c *fiber.Ctx) error {
	assignments, err := h.docService.ListAssignments(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list assignments")
	}
	return c.JSON(dto.NewAssignmentList(assignments))
}

// ListAssigned godoc
// @Summary List documents assigned to the current user
// @Description Approved documents assigned to the caller, newest first
// @Tags documents
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.DocumentResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/documents/assigned [get]
func (h *DocumentHandler) ListAssigned(c *fiber.Ctx) error {
	viewer, err := getViewer(c)
	if err != nil {
		return unauthorized(c)
	}

	docs, err := h.docService.ListApprovedFor(c.Context(), viewer.UserID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list documents")
	}
	return c.JSON(dto.NewDocumentList(docs, viewer.IsAdmin()))
}

// GetDocument godoc
// @Summary Get a document
// @Description Employees only see approved documents assigned to them
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	viewer, err := getViewer(c)
	if err != nil {
		return unauthorized(c)
	}

	doc, err := h.docService.Get(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get document")
	}
	return c.JSON(dto.NewDocumentResponse(doc, viewer.IsAdmin()))
}

// FileURL godoc
// @Summary Get a short-lived link to the document file
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} dto.FileURLResponse
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/documents/{id}/url [get]
func (h *DocumentHandler) FileURL(c *fiber.Ctx) error {
	viewer, err := getViewer(c)
	if err != nil {
		return unauthorized(c)
	}

	link, expiresAt, err := h.docService.FileURL(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to sign file url")
	}
	return c.JSON(dto.FileURLResponse{
		URL:       link,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}
