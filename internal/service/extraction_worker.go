package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facturas/internal/domain"
	"facturas/internal/port"
)

// ExtractionJob is one queued OCR run against a draft.
type ExtractionJob struct {
	DraftID     uuid.UUID
	AttemptID   uuid.UUID
	ImageKey    string
	ContentType string
	Bytes       []byte
	Settings    port.OCRSettings
}

// ExtractionHandler processes a dequeued job. Abandon is called instead of
// Run for jobs the worker drops while shutting down.
type ExtractionHandler interface {
	Run(ctx context.Context, job ExtractionJob) error
	Abandon(ctx context.Context, job ExtractionJob)
}

// ExtractionWorkerConfig holds settings for the extraction worker.
type ExtractionWorkerConfig struct {
	Concurrency int
	QueueSize   int
	JobTimeout  time.Duration
}

// ExtractionWorker runs queued extraction jobs on a bounded pool of
// goroutines.
type ExtractionWorker struct {
	jobs    chan ExtractionJob
	cfg     ExtractionWorkerConfig
	log     zerolog.Logger
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewExtractionWorker creates a new ExtractionWorker.
func NewExtractionWorker(cfg ExtractionWorkerConfig, log zerolog.Logger) *ExtractionWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Concurrency
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 3 * time.Minute
	}
	return &ExtractionWorker{
		jobs: make(chan ExtractionJob, cfg.QueueSize),
		cfg:  cfg,
		log:  log,
	}
}

// Enqueue adds a job without blocking. It fails with ErrQueueFull when the
// queue is at capacity or the worker has stopped.
func (w *ExtractionWorker) Enqueue(job ExtractionJob) error {
	if w.stopped.Load() {
		return domain.ErrQueueFull
	}
	select {
	case w.jobs <- job:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Start dispatches jobs to h until ctx is canceled. Jobs still queued at
// that point are handed to h.Abandon. It blocks until all in-flight jobs
// have finished.
func (w *ExtractionWorker) Start(ctx context.Context, h ExtractionHandler) {
	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info().
		Int("concurrency", w.cfg.Concurrency).
		Int("queue_size", w.cfg.QueueSize).
		Dur("job_timeout", w.cfg.JobTimeout).
		Msg("extraction worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("extraction worker shutting down, waiting for in-flight jobs")
			w.stopped.Store(true)
			w.drain(h)
			w.wg.Wait()
			w.log.Info().Msg("extraction worker shutdown complete")
			return
		case job := <-w.jobs:
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				w.abandon(h, job)
				continue
			}
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer func() { <-sem }()

				// In-flight jobs get a fresh context so they finish during shutdown.
				jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
				defer cancel()

				w.log.Debug().
					Str("draft_id", job.DraftID.String()).
					Str("attempt_id", job.AttemptID.String()).
					Msg("dispatching extraction")
				if err := h.Run(jobCtx, job); err != nil {
					w.log.Error().Err(err).Str("attempt_id", job.AttemptID.String()).Msg("extraction job failed")
				}
			}()
		}
	}
}

// drain abandons every job left in the queue.
func (w *ExtractionWorker) drain(h ExtractionHandler) {
	for {
		select {
		case job := <-w.jobs:
			w.abandon(h, job)
		default:
			return
		}
	}
}

func (w *ExtractionWorker) abandon(h ExtractionHandler, job ExtractionJob) {
	w.log.Warn().Str("attempt_id", job.AttemptID.String()).Msg("dropping queued job on shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.Abandon(ctx, job)
}
