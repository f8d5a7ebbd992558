package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturas/internal/domain"
	"facturas/internal/service"
)

// countingHandler records how many jobs ran, which were abandoned and the
// peak concurrency.
type countingHandler struct {
	mu        sync.Mutex
	ran       []uuid.UUID
	abandoned []uuid.UUID
	running int32
	peak    int32
	delay   time.Duration
	done    chan struct{}
}

func (h *countingHandler) Run(ctx context.Context, job service.ExtractionJob) error {
	n := atomic.AddInt32(&h.running, 1)
	for {
		p := atomic.LoadInt32(&h.peak)
		if n <= p || atomic.CompareAndSwapInt32(&h.peak, p, n) {
			break
		}
	}
	time.Sleep(h.delay)
	atomic.AddInt32(&h.running, -1)

	h.mu.Lock()
	h.ran = append(h.ran, job.AttemptID)
	h.mu.Unlock()
	if h.done != nil {
		h.done <- struct{}{}
	}
	return nil
}

func (h *countingHandler) Abandon(ctx context.Context, job service.ExtractionJob) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.abandoned = append(h.abandoned, job.AttemptID)
}

func TestExtractionWorker_RunsQueuedJobs(t *testing.T) {
	w := service.NewExtractionWorker(service.ExtractionWorkerConfig{Concurrency: 2, QueueSize: 10}, zerolog.Nop())
	h := &countingHandler{delay: 20 * time.Millisecond, done: make(chan struct{}, 10)}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx, h)
		close(stopped)
	}()

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Enqueue(service.ExtractionJob{AttemptID: uuid.New()}))
	}
	for i := 0; i < 5; i++ {
		select {
		case <-h.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	cancel()
	<-stopped

	assert.Len(t, h.ran, 5)
	assert.LessOrEqual(t, atomic.LoadInt32(&h.peak), int32(2))
}

func TestExtractionWorker_QueueFull(t *testing.T) {
	w := service.NewExtractionWorker(service.ExtractionWorkerConfig{Concurrency: 1, QueueSize: 1}, zerolog.Nop())

	require.NoError(t, w.Enqueue(service.ExtractionJob{AttemptID: uuid.New()}))
	assert.ErrorIs(t, w.Enqueue(service.ExtractionJob{AttemptID: uuid.New()}), domain.ErrQueueFull)
}

func TestExtractionWorker_WaitsForInFlightOnShutdown(t *testing.T) {
	w := service.NewExtractionWorker(service.ExtractionWorkerConfig{Concurrency: 1, QueueSize: 1}, zerolog.Nop())
	h := &countingHandler{delay: 100 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx, h)
		close(stopped)
	}()

	require.NoError(t, w.Enqueue(service.ExtractionJob{AttemptID: uuid.New()}))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&h.running) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-stopped

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.ran, 1, "in-flight job completes before Start returns")
}

func TestExtractionWorker_AbandonsQueuedJobsOnShutdown(t *testing.T) {
	w := service.NewExtractionWorker(service.ExtractionWorkerConfig{Concurrency: 1, QueueSize: 4}, zerolog.Nop())
	h := &countingHandler{delay: 100 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx, h)
		close(stopped)
	}()

	first := uuid.New()
	require.NoError(t, w.Enqueue(service.ExtractionJob{AttemptID: first}))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&h.running) == 1 }, time.Second, 5*time.Millisecond)

	queued := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range queued {
		require.NoError(t, w.Enqueue(service.ExtractionJob{AttemptID: id}))
	}
	cancel()
	<-stopped

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []uuid.UUID{first}, h.ran)
	assert.ElementsMatch(t, queued, h.abandoned)

	assert.ErrorIs(t, w.Enqueue(service.ExtractionJob{AttemptID: uuid.New()}), domain.ErrQueueFull)
}
