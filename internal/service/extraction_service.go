package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/draft"
	"facturas/internal/port"
	"facturas/internal/reconcile"
)

// genericExtractionError is shown when a failure carries no message.
const genericExtractionError = "No se pudo procesar la imagen. Intente nuevamente."

// interruptedExtractionError is recorded on attempts dropped at shutdown.
const interruptedExtractionError = "El procesamiento se interrumpió antes de terminar. Vuelva a subir la imagen."

// ExtractionQueue accepts jobs for background processing.
type ExtractionQueue interface {
	Enqueue(job ExtractionJob) error
}

// ProcessedImage is the outcome of a synchronous extraction.
type ProcessedImage struct {
	ImageKey string           `json:"image_key"`
	Result   reconcile.Result `json:"result"`
}

// AttemptView is an attempt together with the draft it belongs to.
type AttemptView struct {
	Attempt *draft.Attempt `json:"attempt"`
	Session *draft.Session `json:"draft"`
}

// ExtractionService runs OCR on invoice images and reconciles the result
// into drafts.
type ExtractionService interface {
	Start(ctx context.Context, ownerID, draftID uuid.UUID, image ImageUploadInput, settings *port.OCRSettings) (*draft.Attempt, error)
	Attempt(ctx context.Context, ownerID, draftID, attemptID uuid.UUID) (*AttemptView, error)
	Run(ctx context.Context, job ExtractionJob) error
	Abandon(ctx context.Context, job ExtractionJob)
	ProcessImage(ctx context.Context, image ImageUploadInput, settings *port.OCRSettings) (*ProcessedImage, error)
}

type extractionService struct {
	store     port.DraftStore
	suppliers port.SupplierRepository
	images    ImageService
	extractor port.InvoiceExtractor
	queue     ExtractionQueue
	defaults  config.OCRConfig
	log       zerolog.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	store port.DraftStore,
	suppliers port.SupplierRepository,
	images ImageService,
	extractor port.InvoiceExtractor,
	queue ExtractionQueue,
	defaults config.OCRConfig,
	log zerolog.Logger,
) ExtractionService {
	return &extractionService{
		store:     store,
		suppliers: suppliers,
		images:    images,
		extractor: extractor,
		queue:     queue,
		defaults:  defaults,
		log:       log,
	}
}

func (s *extractionService) Start(
	ctx context.Context,
	ownerID, draftID uuid.UUID,
	image ImageUploadInput,
	settings *port.OCRSettings,
) (*draft.Attempt, error) {
	session, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrDraftNotFound
	}

	image.Prefix = "drafts/" + draftID.String()
	stored, err := s.images.Store(ctx, image)
	if err != nil {
		return nil, err
	}

	var attempt draft.Attempt
	_, err = s.store.Update(ctx, draftID, func(sess *draft.Session) error {
		attempt = sess.StartAttempt(stored.Key, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}

	job := ExtractionJob{
		DraftID:     draftID,
		AttemptID:   attempt.ID,
		ImageKey:    stored.Key,
		ContentType: stored.ContentType,
		Bytes:       stored.Bytes,
		Settings:    s.resolveSettings(settings),
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.fail(ctx, job, err)
		return nil, err
	}

	s.log.Info().
		Str("draft_id", draftID.String()).
		Str("attempt_id", attempt.ID.String()).
		Str("engine", job.Settings.OCREngine).
		Msg("extraction queued")
	return &attempt, nil
}

func (s *extractionService) Attempt(ctx context.Context, ownerID, draftID, attemptID uuid.UUID) (*AttemptView, error) {
	session, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrDraftNotFound
	}
	a, err := session.Attempt(attemptID)
	if err != nil {
		return nil, err
	}
	return &AttemptView{Attempt: a, Session: session}, nil
}

// Run reads the image, reconciles the candidate against the supplier
// directory and applies it to the draft. A result for an attempt that was
// superseded meanwhile is discarded.
func (s *extractionService) Run(ctx context.Context, job ExtractionJob) error {
	res, err := s.extract(ctx, job.Bytes, job.ContentType, job.Settings)
	if err != nil {
		s.fail(ctx, job, err)
		return err
	}

	_, err = s.store.Update(ctx, job.DraftID, func(sess *draft.Session) error {
		return sess.CompleteAttempt(job.AttemptID, *res, time.Now().UTC())
	})
	switch {
	case errors.Is(err, domain.ErrAttemptSuperseded):
		s.log.Info().
			Str("draft_id", job.DraftID.String()).
			Str("attempt_id", job.AttemptID.String()).
			Msg("discarding result of superseded extraction")
		return nil
	case errors.Is(err, domain.ErrDraftNotFound):
		s.log.Info().Str("draft_id", job.DraftID.String()).Msg("draft gone before extraction finished")
		return nil
	case err != nil:
		return fmt.Errorf("applying extraction: %w", err)
	}

	s.log.Info().
		Str("draft_id", job.DraftID.String()).
		Str("attempt_id", job.AttemptID.String()).
		Int("warnings", len(res.Warnings)).
		Msg("extraction applied")
	return nil
}

func (s *extractionService) ProcessImage(ctx context.Context, image ImageUploadInput, settings *port.OCRSettings) (*ProcessedImage, error) {
	stored, err := s.images.Store(ctx, image)
	if err != nil {
		return nil, err
	}
	res, err := s.extract(ctx, stored.Bytes, stored.ContentType, s.resolveSettings(settings))
	if err != nil {
		return nil, err
	}
	return &ProcessedImage{ImageKey: stored.Key, Result: *res}, nil
}

func (s *extractionService) extract(ctx context.Context, data []byte, contentType string, settings port.OCRSettings) (*reconcile.Result, error) {
	env, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   data,
		ContentType: contentType,
		Settings:    settings,
	})
	if err != nil {
		return nil, err
	}

	candidate, err := reconcile.Normalize(*env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	suppliers, err := s.suppliers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading suppliers: %w", err)
	}

	res := reconcile.Reconcile(candidate, suppliers)
	return &res, nil
}

// Abandon fails the attempt of a job that will never run, so the user can
// upload again instead of waiting on a pending attempt.
func (s *extractionService) Abandon(ctx context.Context, job ExtractionJob) {
	s.recordFailure(ctx, job, interruptedExtractionError)
}

// fail records err on the attempt so the user sees it. The draft itself is
// left as it was.
func (s *extractionService) fail(ctx context.Context, job ExtractionJob, cause error) {
	reason := cause.Error()
	if reason == "" {
		reason = genericExtractionError
	}
	s.recordFailure(ctx, job, reason)
}

func (s *extractionService) recordFailure(ctx context.Context, job ExtractionJob, reason string) {
	_, err := s.store.Update(ctx, job.DraftID, func(sess *draft.Session) error {
		return sess.FailAttempt(job.AttemptID, reason, time.Now().UTC())
	})
	if err != nil && !errors.Is(err, domain.ErrAttemptSuperseded) {
		s.log.Warn().Err(err).Str("attempt_id", job.AttemptID.String()).Msg("could not record extraction failure")
	}
}

// resolveSettings fills unset OCR settings from the configured defaults.
// An empty engine selects the configured provider chain.
func (s *extractionService) resolveSettings(req *port.OCRSettings) port.OCRSettings {
	threshold := s.defaults.ConfidenceThreshold
	temperature := s.defaults.Temperature
	out := port.OCRSettings{
		ConfidenceThreshold: &threshold,
		Language:            s.defaults.Language,
		Temperature:         &temperature,
	}
	if req == nil {
		return out
	}
	if req.ConfidenceThreshold != nil {
		v := *req.ConfidenceThreshold
		out.ConfidenceThreshold = &v
	}
	if req.Language != "" {
		out.Language = req.Language
	}
	if req.OCREngine != "" {
		out.OCREngine = req.OCREngine
	}
	if req.Temperature != nil {
		v := *req.Temperature
		out.Temperature = &v
	}
	return out
}
