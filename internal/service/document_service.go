package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"docportal/internal/apperr"
	"docportal/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentStore persists documents and assignments. Transitions are atomic
// and report NotFound or Conflict through apperr.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByStatus(ctx context.Context, statuses ...models.DocumentStatus) ([]*models.Document, error)
	ListApprovedForUser(ctx context.Context, userID string) ([]*models.Document, error)
	GetVisibleForUser(ctx context.Context, docID, userID string) (*models.Document, error)
	Approve(ctx context.Context, docID string, userIDs []string, notes *string, at time.Time) (*models.Document, []models.Assignment, error)
	Reject(ctx context.Context, docID, notes string, at time.Time) (*models.Document, error)
	StartReview(ctx context.Context, docID string, at time.Time) (*models.Document, error)
	ListAssignments(ctx context.Context, docID string) ([]models.Assignment, error)
	MarkEnrichmentPending(ctx context.Context, docID string, at time.Time) error
}

type UserDirectory interface {
	ListActiveEmployees(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type BlobStore interface {
	Put(ctx context.Context, ref string, data []byte) error
	Delete(ctx context.Context, ref string) error
	SignedURL(ref string, ttl time.Duration) (string, time.Time, error)
}

type NotificationSink interface {
	Send(ctx context.Context, n *models.Notification) error
}

// EnrichmentQueue accepts document ids for background enrichment. Enqueue
// must not block.
type EnrichmentQueue interface {
	Enqueue(docID string)
}

type LifecycleOptions struct {
	CollaboratorTimeout time.Duration
	StorageRetries      int
	StorageBackoff      time.Duration
	URLTTL              time.Duration
	MaxUploadBytes      int64
}

// Viewer is the identity a read is performed for.
type Viewer struct {
	UserID string
	Role   models.Role
}

func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}

type CreateDocumentInput struct {
	Title       string
	Category    string
	Description string
	Priority    string
	Deadline    *time.Time
	UploadedBy  string
	FileName    string
	FileType    string
	Data        []byte
}

type ApprovalResult struct {
	Document       *models.Document
	NewAssignments []models.Assignment
}

type DocumentService struct {
	docs     DocumentStore
	users    UserDirectory
	blobs    BlobStore
	notifier NotificationSink
	queue    EnrichmentQueue
	opts     LifecycleOptions
	now      func() time.Time
	logger   *zap.Logger
}

func NewDocumentService(
	docs DocumentStore,
	users UserDirectory,
	blobs BlobStore,
	notifier NotificationSink,
	queue EnrichmentQueue,
	opts LifecycleOptions,
	logger *zap.Logger,
) *DocumentService {
	if opts.CollaboratorTimeout <= 0 {
		opts.CollaboratorTimeout = 10 * time.Second
	}
	if opts.StorageRetries <= 0 {
		opts.StorageRetries = 1
	}
	if opts.URLTTL <= 0 {
		opts.URLTTL = 15 * time.Minute
	}

	return &DocumentService{
		docs:     docs,
		users:    users,
		blobs:    blobs,
		notifier: notifier,
		queue:    queue,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// WithClock replaces the time source used for timestamps.
func (s *DocumentService) WithClock(now func() time.Time) *DocumentService {
	s.now = now
	return s
}

func (s *DocumentService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create stores the blob, then the metadata record. A record is never
// written without its blob, and a blob whose record could not be written is
// removed again.
func (s *DocumentService) Create(ctx context.Context, in CreateDocumentInput) (*models.Document, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if category == "" {
		return nil, apperr.Validation("category is required")
	}
	if len(in.Data) == 0 {
		return nil, apperr.Validation("file is empty")
	}
	if s.opts.MaxUploadBytes > 0 && int64(len(in.Data)) > s.opts.MaxUploadBytes {
		return nil, apperr.Validation("file exceeds %d bytes", s.opts.MaxUploadBytes)
	}

	priority := models.PriorityMedium
	if p := strings.ToLower(strings.TrimSpace(in.Priority)); p != "" {
		priority = models.Priority(p)
		if !priority.Valid() {
			return nil, apperr.Validation("unknown priority %q", in.Priority)
		}
	}

	now := s.timestamp()
	id := uuid.New().String()
	doc := &models.Document{
		ID:               id,
		Title:            title,
		Category:         category,
		Description:      optional(in.Description),
		Priority:         priority,
		Deadline:         in.Deadline,
		Status:           models.StatusPending,
		UploadedBy:       optional(in.UploadedBy),
		FileReference:    id + strings.ToLower(filepath.Ext(in.FileName)),
		FileName:         in.FileName,
		FileType:         in.FileType,
		FileSize:         int64(len(in.Data)),
		EnrichmentStatus: models.EnrichmentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := retry(ctx, s.opts.StorageRetries, s.opts.StorageBackoff, func(attempt int) error {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.CollaboratorTimeout)
		defer cancel()

		err := s.blobs.Put(callCtx, doc.FileReference, in.Data)
		if err != nil {
			s.logger.Warn("Blob upload failed",
				zap.String("ref", doc.FileReference),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	})
	if err != nil {
		return nil, apperr.Storage(err, "storing file %s", in.FileName)
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		s.deleteBlob(doc.FileReference)
		return nil, fmt.Errorf("saving document: %w", err)
	}

	if s.queue != nil {
		s.queue.Enqueue(doc.ID)
	}

	s.logger.Info("Document created",
		zap.String("document_id", doc.ID),
		zap.String("title", doc.Title),
		zap.Int64("file_size", doc.FileSize),
	)
	return doc, nil
}

// deleteBlob runs detached from the request context so a cancelled upload
// still cleans up after itself.
func (s *DocumentService) deleteBlob(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.CollaboratorTimeout)
	defer cancel()

	if err := s.blobs.Delete(ctx, ref); err != nil {
		s.logger.Error("Failed to delete orphaned blob", zap.String("ref", ref), zap.Error(err))
	}
}

func (s *DocumentService) StartReview(ctx context.Context, docID string) (*models.Document, error) {
	return s.docs.StartReview(ctx, docID, s.timestamp())
}

// Approve assigns the document to the given employees and marks it approved.
// Approving an approved document only adds the missing assignments; every
// assignee is notified once.
func (s *DocumentService) Approve(ctx context.Context, docID string, employeeIDs []string, notes *string) (*ApprovalResult, error) {
	ids := dedupe(employeeIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("at least one employee is required")
	}

	if err := s.checkAssignable(ctx, ids); err != nil {
		return nil, err
	}

	var reviewNotes *string
	if notes != nil {
		reviewNotes = optional(*notes)
	}

	now := s.timestamp()
	doc, created, err := s.docs.Approve(ctx, docID, ids, reviewNotes, now)
	if err != nil {
		return nil, err
	}

	for _, a := range created {
		s.notifyAssigned(ctx, doc, a, now)
	}

	return &ApprovalResult{Document: doc, NewAssignments: created}, nil
}

func (s *DocumentService) checkAssignable(ctx context.Context, ids []string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CollaboratorTimeout)
	defer cancel()

	employees, err := s.users.ListActiveEmployees(callCtx)
	if err != nil {
		return fmt.Errorf("loading employees: %w", err)
	}

	known := make(map[string]struct{}, len(employees))
	for _, u := range employees {
		if u.Assignable() {
			known[u.ID] = struct{}{}
		}
	}

	var invalid []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return apperr.Validation("not active employees: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func (s *DocumentService) notifyAssigned(ctx context.Context, doc *models.Document, a models.Assignment, at time.Time) {
	if s.notifier == nil {
		return
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.CollaboratorTimeout)
	defer cancel()

	n := &models.Notification{
		ID:          uuid.New().String(),
		RecipientID: a.UserID,
		Title:       "New Document Assigned",
		Message:     fmt.Sprintf("You have been assigned a new document: %s", doc.Title),
		Category:    "document",
		Priority:    doc.Priority,
		CreatedAt:   at,
	}
	if err := s.notifier.Send(callCtx, n); err != nil {
		s.logger.Warn("Failed to notify assignee",
			zap.String("document_id", doc.ID),
			zap.String("user_id", a.UserID),
			zap.Error(apperr.Notification(err, "notifying %s", a.UserID)),
		)
	}
}

func (s *DocumentService) Reject(ctx context.Context, docID, notes string) (*models.Document, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperr.Validation("review notes are required to reject a document")
	}
	return s.docs.Reject(ctx, docID, notes, s.timestamp())
}

// ListPending returns documents awaiting review, newest first.
func (s *DocumentService) ListPending(ctx context.Context) ([]*models.Document, error) {
	return s.docs.ListByStatus(ctx, models.StatusPending, models.StatusUnderReview)
}

func (s *DocumentService) ListApprovedFor(ctx context.Context, userID string) ([]*models.Document, error) {
	return s.docs.ListApprovedForUser(ctx, userID)
}

func (s *DocumentService) ListEmployees(ctx context.Context) ([]*models.User, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CollaboratorTimeout)
	defer cancel()

	return s.users.ListActiveEmployees(callCtx)
}

// Get returns the document if the viewer may see it. Documents hidden from
// the viewer are reported as not found.
func (s *DocumentService) Get(ctx context.Context, viewer Viewer, docID string) (*models.Document, error) {
	if viewer.IsAdmin() {
		return s.docs.GetByID(ctx, docID)
	}
	return s.docs.GetVisibleForUser(ctx, docID, viewer.UserID)
}

func (s *DocumentService) FileURL(ctx context.Context, viewer Viewer, docID string) (string, time.Time, error) {
	doc, err := s.Get(ctx, viewer, docID)
	if err != nil {
		return "", time.Time{}, err
	}

	link, expiresAt, err := s.blobs.SignedURL(doc.FileReference, s.opts.URLTTL)
	if err != nil {
		return "", time.Time{}, apperr.Storage(err, "signing url for document %s", docID)
	}
	return link, expiresAt, nil
}

func (s *DocumentService) RetryEnrichment(ctx context.Context, docID string) error {
	if err := s.docs.MarkEnrichmentPending(ctx, docID, s.timestamp()); err != nil {
		return err
	}
	if s.queue != nil {
		s.queue.Enqueue(docID)
	}
	return nil
}

func (s *DocumentService) ListAssignments(ctx context.Context, docID string) ([]models.Assignment, error) {
	if _, err := s.docs.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	return s.docs.ListAssignments(ctx, docID)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
