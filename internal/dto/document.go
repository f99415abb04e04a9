package dto

import (
	"time"

	"docportal/internal/models"
)

type DocumentResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Description      *string `json:"description,omitempty"`
	Priority         string  `json:"priority"`
	Deadline         *string `json:"deadline,omitempty"`
	Status           string  `json:"status"`
	UploadedBy       *string `json:"uploaded_by,omitempty"`
	FileName         string  `json:"file_name"`
	FileType         string  `json:"file_type"`
	FileSize         int64   `json:"file_size"`
	ExtractedText    *string `json:"extracted_text,omitempty"`
	Summary          *string `json:"summary,omitempty"`
	Translation      *string `json:"translation,omitempty"`
	EnrichmentStatus string  `json:"enrichment_status"`
	EnrichmentError  *string `json:"enrichment_error,omitempty"`
	ReviewNotes      *string `json:"review_notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// NewDocumentResponse hides review-only fields from non-admin viewers.
func NewDocumentResponse(d *models.Document, admin bool) DocumentResponse {
	resp := DocumentResponse{
		ID:               d.ID,
		Title:            d.Title,
		Category:         d.Category,
		Description:      d.Description,
		Priority:         string(d.Priority),
		Status:           string(d.Status),
		FileName:         d.FileName,
		FileType:         d.FileType,
		FileSize:         d.FileSize,
		ExtractedText:    d.ExtractedText,
		Summary:          d.Summary,
		Translation:      d.Translation,
		EnrichmentStatus: string(d.EnrichmentStatus),
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.Format(time.RFC3339),
	}
	if d.Deadline != nil {
		deadline := d.Deadline.Format("2006-01-02")
		resp.Deadline = &deadline
	}
	if admin {
		resp.UploadedBy = d.UploadedBy
		resp.EnrichmentError = d.EnrichmentError
		resp.ReviewNotes = d.ReviewNotes
	}
	return resp
}

func NewDocumentList(docs []*models.Document, admin bool) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d, admin))
	}
	return out
}

type ApproveDocumentRequest struct {
	EmployeeIDs []string `json:"employee_ids" validate:"required,min=1"`
	ReviewNotes *string  `json:"review_notes,omitempty"`
}

type RejectDocumentRequest struct {
	ReviewNotes string `json:"review_notes" validate:"required"`
}

type ApproveDocumentResponse struct {
	Document       DocumentResponse     `json:"document"`
	NewAssignments []AssignmentResponse `json:"new_assignments"`
}

type AssignmentResponse struct {
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id"`
	AssignedAt string `json:"assigned_at"`
}

func NewAssignmentList(assignments []models.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, AssignmentResponse{
			DocumentID: a.DocumentID,
			UserID:     a.UserID,
			AssignedAt: a.AssignedAt.Format(time.RFC3339),
		})
	}
	return out
}

type FileURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}
