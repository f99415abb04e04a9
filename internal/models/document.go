package models

import (
	"time"
)

type DocumentStatus string

const (
	StatusPending     DocumentStatus = "pending"
	StatusUnderReview DocumentStatus = "under_review"
	StatusApproved    DocumentStatus = "approved"
	StatusRejected    DocumentStatus = "rejected"
)

// Reviewable reports whether an admin may still approve or reject the document
// for the first time.
func (s DocumentStatus) Reviewable() bool {
	return s == StatusPending || s == StatusUnderReview
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type EnrichmentStatus string

const (
	EnrichmentPending   EnrichmentStatus = "pending"
	EnrichmentCompleted EnrichmentStatus = "completed"
	EnrichmentFailed    EnrichmentStatus = "failed"
)

type Document struct {
	ID               string           `db:"id"`
	Title            string           `db:"title"`
	Category         string           `db:"category"`
	Description      *string          `db:"description"`
	Priority         Priority         `db:"priority"`
	Deadline         *time.Time       `db:"deadline"`
	Status           DocumentStatus   `db:"status"`
	UploadedBy       *string          `db:"uploaded_by"`
	FileReference    string           `db:"file_reference"`
	FileName         string           `db:"file_name"`
	FileType         string           `db:"file_type"`
	FileSize         int64            `db:"file_size"`
	ExtractedText    *string          `db:"extracted_text"`
	Summary          *string          `db:"summary"`
	Translation      *string          `db:"translation"`
	EnrichmentStatus EnrichmentStatus `db:"enrichment_status"`
	EnrichmentError  *string          `db:"enrichment_error"`
	ReviewNotes      *string          `db:"review_notes"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// Enrichment is the system-generated part of a document.
type Enrichment struct {
	ExtractedText *string
	Summary       *string
	Translation   *string
	Status        EnrichmentStatus
	Error         *string
}
