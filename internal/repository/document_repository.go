package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docportal/internal/apperr"
	"docportal/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var documentColumns = []string{
	"id", "title", "category", "description", "priority", "deadline", "status",
	"uploaded_by", "file_reference", "file_name", "file_type", "file_size",
	"extracted_text", "summary", "translation", "enrichment_status", "enrichment_error",
	"review_notes", "created_at", "updated_at",
}

var reviewableStatuses = []string{string(models.StatusPending), string(models.StatusUnderReview)}

type DocumentRepository struct {
	*Database
	logger *zap.Logger
}

func NewDocumentRepository(db *Database, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		Database: db,
		logger:   logger,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := r.sb.Insert("documents").
		Columns(documentColumns...).
		Values(
			doc.ID, doc.Title, doc.Category, doc.Description, string(doc.Priority), doc.Deadline, string(doc.Status),
			doc.UploadedBy, doc.FileReference, doc.FileName, doc.FileType, doc.FileSize,
			doc.ExtractedText, doc.Summary, doc.Translation, string(doc.EnrichmentStatus), doc.EnrichmentError,
			doc.ReviewNotes, doc.CreatedAt, doc.UpdatedAt,
		)

	if _, err := exec(ctx, r.db, query); err != nil {
		return fmt.Errorf("inserting document %s: %w", doc.ID, err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *DocumentRepository) getByID(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Document, error) {
	var doc models.Document
	err := get(ctx, q, &doc, r.sb.Select(documentColumns...).From("documents").Where(squirrel.Eq{"id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("document %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	return &doc, nil
}

// ListByStatus returns documents in any of the given statuses, newest first.
func (r *DocumentRepository) ListByStatus(ctx context.Context, statuses ...models.DocumentStatus) ([]*models.Document, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	docs := []*models.Document{}
	query := r.sb.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"status": values}).
		OrderBy("created_at DESC", "id DESC")
	if err := selectAll(ctx, r.db, &docs, query); err != nil {
		return nil, fmt.Errorf("listing documents by status: %w", err)
	}
	return docs, nil
}

// ListApprovedForUser is the visibility query for employees: approved
// documents that carry an assignment naming userID.
func (r *DocumentRepository) ListApprovedForUser(ctx context.Context, userID string) ([]*models.Document, error) {
	docs := []*models.Document{}
	if err := selectAll(ctx, r.db, &docs, r.visibleTo(userID).OrderBy("d.created_at DESC", "d.id DESC")); err != nil {
		return nil, fmt.Errorf("listing documents for user %s: %w", userID, err)
	}
	return docs, nil
}

// GetVisibleForUser returns NotFound both for unknown documents and for
// documents the user may not see.
func (r *DocumentRepository) GetVisibleForUser(ctx context.Context, docID, userID string) (*models.Document, error) {
	var doc models.Document
	err := get(ctx, r.db, &doc, r.visibleTo(userID).Where(squirrel.Eq{"d.id": docID}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("document %s", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s for user %s: %w", docID, userID, err)
	}
	return &doc, nil
}

func (r *DocumentRepository) visibleTo(userID string) squirrel.SelectBuilder {
	cols := make([]string, len(documentColumns))
	for i, c := range documentColumns {
		cols[i] = "d." + c
	}
	return r.sb.Select(cols...).
		From("documents d").
		Join("document_assignments a ON a.document_id = d.id").
		Where(squirrel.Eq{"d.status": string(models.StatusApproved), "a.user_id": userID})
}

// Approve moves the document to approved and upserts one assignment per user
// in a single transaction. It returns the assignments that did not exist
// before the call. A nil notes keeps the previous review notes.
func (r *DocumentRepository) Approve(ctx context.Context, docID string, userIDs []string, notes *string, at time.Time) (*models.Document, []models.Assignment, error) {
	var (
		doc     *models.Document
		created []models.Assignment
	)

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		from := append([]string{string(models.StatusApproved)}, reviewableStatuses...)
		update := r.sb.Update("documents").
			Set("status", string(models.StatusApproved)).
			Set("review_notes", squirrel.Expr("COALESCE(?, review_notes)", notes)).
			Set("updated_at", at).
			Where(squirrel.Eq{"id": docID, "status": from})
		if err := r.transition(ctx, tx, docID, update); err != nil {
			return err
		}

		for _, userID := range userIDs {
			res, err := exec(ctx, tx, r.sb.Insert("document_assignments").
				Columns("document_id", "user_id", "assigned_at").
				Values(docID, userID, at).
				Suffix("ON CONFLICT (document_id, user_id) DO NOTHING"))
			if err != nil {
				return fmt.Errorf("assigning document %s to %s: %w", docID, userID, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				created = append(created, models.Assignment{DocumentID: docID, UserID: userID, AssignedAt: at})
			}
		}

		var err error
		doc, err = r.getByID(ctx, tx, docID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("Document approved",
		zap.String("document_id", docID),
		zap.Int("requested", len(userIDs)),
		zap.Int("new_assignments", len(created)),
	)
	return doc, created, nil
}

func (r *DocumentRepository) Reject(ctx context.Context, docID, notes string, at time.Time) (*models.Document, error) {
	var doc *models.Document
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		update := r.sb.Update("documents").
			Set("status", string(models.StatusRejected)).
			Set("review_notes", notes).
			Set("updated_at", at).
			Where(squirrel.Eq{"id": docID, "status": reviewableStatuses})
		if err := r.transition(ctx, tx, docID, update); err != nil {
			return err
		}

		var err error
		doc, err = r.getByID(ctx, tx, docID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// StartReview moves a pending document to under_review. A document already
// under review is returned unchanged.
func (r *DocumentRepository) StartReview(ctx context.Context, docID string, at time.Time) (*models.Document, error) {
	var doc *models.Document
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		update := r.sb.Update("documents").
			Set("status", string(models.StatusUnderReview)).
			Set("updated_at", at).
			Where(squirrel.Eq{"id": docID, "status": string(models.StatusPending)})
		err := r.transition(ctx, tx, docID, update)
		if err != nil && !errors.Is(err, errAlreadyUnderReview) {
			return err
		}

		doc, err = r.getByID(ctx, tx, docID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

var errAlreadyUnderReview = apperr.Conflict("document is already under review")

// transition runs a conditional status update and explains a miss: the
// document is either unknown or no longer in a state the update accepts.
func (r *DocumentRepository) transition(ctx context.Context, tx *sqlx.Tx, docID string, update squirrel.UpdateBuilder) error {
	res, err := exec(ctx, tx, update)
	if err != nil {
		return fmt.Errorf("updating document %s: %w", docID, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var status string
	err = get(ctx, tx, &status, r.sb.Select("status").From("documents").Where(squirrel.Eq{"id": docID}))
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("document %s", docID)
	}
	if err != nil {
		return fmt.Errorf("reading status of document %s: %w", docID, err)
	}
	if models.DocumentStatus(status) == models.StatusUnderReview {
		return errAlreadyUnderReview
	}
	return apperr.Conflict("document %s is %s", docID, status)
}

// UpdateEnrichment overwrites the system-generated fields. Status and review
// data are never touched, so it cannot race with transitions.
func (r *DocumentRepository) UpdateEnrichment(ctx context.Context, docID string, e models.Enrichment, at time.Time) error {
	res, err := exec(ctx, r.db, r.sb.Update("documents").
		Set("extracted_text", e.ExtractedText).
		Set("summary", e.Summary).
		Set("translation", e.Translation).
		Set("enrichment_status", string(e.Status)).
		Set("enrichment_error", e.Error).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": docID}))
	if err != nil {
		return fmt.Errorf("updating enrichment of document %s: %w", docID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("document %s", docID)
	}
	return nil
}

// MarkEnrichmentPending flags a document for another enrichment run.
func (r *DocumentRepository) MarkEnrichmentPending(ctx context.Context, docID string, at time.Time) error {
	res, err := exec(ctx, r.db, r.sb.Update("documents").
		Set("enrichment_status", string(models.EnrichmentPending)).
		Set("enrichment_error", nil).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": docID}))
	if err != nil {
		return fmt.Errorf("re-queueing enrichment of document %s: %w", docID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("document %s", docID)
	}
	return nil
}

// ListPendingEnrichment returns ids of documents created before olderThan
// whose enrichment has not finished, oldest first.
func (r *DocumentRepository) ListPendingEnrichment(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	ids := []string{}
	query := r.sb.Select("id").
		From("documents").
		Where(squirrel.Eq{"enrichment_status": string(models.EnrichmentPending)}).
		Where(squirrel.Lt{"created_at": olderThan}).
		OrderBy("created_at ASC").
		Limit(uint64(limit))
	if err := selectAll(ctx, r.db, &ids, query); err != nil {
		return nil, fmt.Errorf("listing pending enrichment: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) ListAssignments(ctx context.Context, docID string) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	query := r.sb.Select("document_id", "user_id", "assigned_at").
		From("document_assignments").
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("assigned_at ASC", "user_id ASC")
	if err := selectAll(ctx, r.db, &assignments, query); err != nil {
		return nil, fmt.Errorf("listing assignments of document %s: %w", docID, err)
	}
	return assignments, nil
}
