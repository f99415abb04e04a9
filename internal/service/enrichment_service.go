package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docportal/internal/apperr"
	"docportal/internal/models"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type EnrichmentStore interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
	UpdateEnrichment(ctx context.Context, docID string, e models.Enrichment, at time.Time) error
	ListPendingEnrichment(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
}

type BlobReader interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

type EnrichmentOptions struct {
	Workers             int
	QueueSize           int
	Timeout             time.Duration
	SweepInterval       time.Duration
	TranslationLanguage string
	MaxPromptChars      int
}

// EnrichmentService fills in extracted text, summary and translation for
// new documents. Work arrives through Enqueue and from a periodic sweep of
// documents whose enrichment is still pending. It never changes a
// document's review status.
type EnrichmentService struct {
	store     EnrichmentStore
	blobs     BlobReader
	extractor TextExtractor
	enricher  Enricher
	opts      EnrichmentOptions
	queue     chan string
	logger    *zap.Logger

	mu sync.Mutex
	// inFlight holds queued or running documents. A true value means another
	// pass was requested while the current one was running.
	inFlight map[string]bool
}

func NewEnrichmentService(
	store EnrichmentStore,
	blobs BlobReader,
	extractor TextExtractor,
	enricher Enricher,
	opts EnrichmentOptions,
	logger *zap.Logger,
) *EnrichmentService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.TranslationLanguage == "" {
		opts.TranslationLanguage = "Malayalam"
	}

	return &EnrichmentService{
		store:     store,
		blobs:     blobs,
		extractor: extractor,
		enricher:  enricher,
		opts:      opts,
		queue:     make(chan string, opts.QueueSize),
		logger:    logger,
		inFlight:  make(map[string]bool),
	}
}

// Enqueue schedules docID for enrichment without blocking. When the queue is
// full the document stays pending and the next sweep picks it up. If the
// document is being processed right now, it is processed again once the
// running pass finishes, so a retry never lands under a stale result.
func (s *EnrichmentService) Enqueue(docID string) {
	s.offer(docID, true)
}

func (s *EnrichmentService) offer(docID string, rerunIfBusy bool) {
	s.mu.Lock()
	if _, busy := s.inFlight[docID]; busy {
		if rerunIfBusy {
			s.inFlight[docID] = true
		}
		s.mu.Unlock()
		return
	}
	s.inFlight[docID] = false
	s.mu.Unlock()

	select {
	case s.queue <- docID:
	default:
		s.release(docID)
		s.logger.Warn("Enrichment queue full, deferring to sweep", zap.String("document_id", docID))
	}
}

func (s *EnrichmentService) release(docID string) {
	s.mu.Lock()
	delete(s.inFlight, docID)
	s.mu.Unlock()
}

// finish reports whether another pass was requested for docID while it ran.
// If so the document stays in flight and the flag is cleared.
func (s *EnrichmentService) finish(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[docID] {
		s.inFlight[docID] = false
		return true
	}
	delete(s.inFlight, docID)
	return false
}

// Run starts the workers and the sweeper and blocks until ctx is done and
// every worker has returned.
func (s *EnrichmentService) Run(ctx context.Context) {
	var wg conc.WaitGroup

	for i := 0; i < s.opts.Workers; i++ {
		worker := i + 1
		wg.Go(func() {
			s.work(ctx, worker)
		})
	}

	if s.opts.SweepInterval > 0 {
		wg.Go(func() {
			s.sweepLoop(ctx)
		})
	}

	s.logger.Info("Enrichment workers started",
		zap.Int("workers", s.opts.Workers),
		zap.Duration("sweep_interval", s.opts.SweepInterval),
	)

	if r := wg.WaitAndRecover(); r != nil {
		s.logger.Error("Enrichment worker panicked", zap.String("panic", r.String()))
	}
}

func (s *EnrichmentService) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case docID := <-s.queue:
			for {
				if err := s.Process(ctx, docID); err != nil {
					s.logger.Warn("Enrichment failed",
						zap.Int("worker", worker),
						zap.String("document_id", docID),
						zap.Error(err),
					)
				}
				if ctx.Err() != nil {
					s.release(docID)
					return
				}
				if !s.finish(docID) {
					break
				}
				s.logger.Info("Re-running enrichment requested during a pass", zap.String("document_id", docID))
			}
		}
	}
}

func (s *EnrichmentService) sweepLoop(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep enqueues documents whose enrichment is still pending.
func (s *EnrichmentService) Sweep(ctx context.Context) int {
	ids, err := s.store.ListPendingEnrichment(ctx, time.Now().UTC(), s.opts.QueueSize)
	if err != nil {
		s.logger.Error("Enrichment sweep failed", zap.Error(err))
		return 0
	}

	for _, id := range ids {
		s.offer(id, false)
	}
	if len(ids) > 0 {
		s.logger.Info("Enrichment sweep queued documents", zap.Int("count", len(ids)))
	}
	return len(ids)
}

// Process runs one enrichment pass for docID and records the outcome. The
// returned error is informational; the document is left in a consistent
// state either way.
func (s *EnrichmentService) Process(ctx context.Context, docID string) error {
	runCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	doc, err := s.store.GetByID(runCtx, docID)
	if err != nil {
		return fmt.Errorf("loading document %s: %w", docID, err)
	}

	result, runErr := s.enrich(runCtx, doc)
	if runErr != nil {
		msg := runErr.Error()
		result.Status = models.EnrichmentFailed
		result.Error = &msg
	} else {
		result.Status = models.EnrichmentCompleted
	}

	// The run context may already be spent; the outcome is still recorded.
	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
	defer saveCancel()

	if err := s.store.UpdateEnrichment(saveCtx, docID, result, time.Now().UTC().Truncate(time.Microsecond)); err != nil {
		return fmt.Errorf("saving enrichment of %s: %w", docID, err)
	}

	if runErr != nil {
		return apperr.Enrichment(runErr, "document %s", docID)
	}

	s.logger.Info("Document enriched",
		zap.String("document_id", docID),
		zap.Bool("has_text", result.ExtractedText != nil),
		zap.Bool("has_summary", result.Summary != nil),
	)
	return nil
}

func (s *EnrichmentService) enrich(ctx context.Context, doc *models.Document) (models.Enrichment, error) {
	var result models.Enrichment

	data, err := s.blobs.Get(ctx, doc.FileReference)
	if err != nil {
		return result, fmt.Errorf("reading file: %w", err)
	}

	text, err := s.extractor.ExtractText(ctx, doc.FileName, doc.FileType, data)
	if errors.Is(err, ErrUnsupportedFormat) {
		s.logger.Info("No text extractor for file", zap.String("document_id", doc.ID), zap.String("file_type", doc.FileType))
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("extracting text: %w", err)
	}
	result.ExtractedText = optional(text)
	if result.ExtractedText == nil {
		return result, nil
	}

	summary, err := s.enricher.Summarize(ctx, truncateRunes(text, s.opts.MaxPromptChars))
	if err != nil {
		return result, fmt.Errorf("summarising: %w", err)
	}
	result.Summary = optional(summary)
	if result.Summary == nil {
		return result, nil
	}

	translation, err := s.enricher.Translate(ctx, summary, s.opts.TranslationLanguage)
	if err != nil {
		return result, fmt.Errorf("translating to %s: %w", s.opts.TranslationLanguage, err)
	}
	result.Translation = optional(translation)

	return result, nil
}
