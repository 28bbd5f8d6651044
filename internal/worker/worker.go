package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dtsonov/jobprocessor/internal/worker/domain"
	"github.com/dtsonov/jobprocessor/shared/rabbitmq"
	"github.com/google/uuid"
)

// ErrDeliveryChannelClosed is returned by Start when the broker closes
// the delivery channel. The process should exit so a supervisor can
// restart it with a fresh connection.
var ErrDeliveryChannelClosed = errors.New("rabbitmq delivery channel closed")

// Config holds worker configuration
type Config struct {
	Logger          *slog.Logger
	RabbitClient    *rabbitmq.Client
	Callback        *CallbackClient
	Concurrency     int
	PrefetchCount   int
	ProcessingDelay time.Duration
}

// Worker simulates an external job processor: it consumes dispatched
// jobs from RabbitMQ, waits a fixed processing delay, and reports the
// result through the API's authenticated completion callback.
type Worker struct {
	logger          *slog.Logger
	rabbitClient    *rabbitmq.Client
	callback        *CallbackClient
	concurrency     int
	prefetchCount   int
	processingDelay time.Duration
	workerID        string
	jobsChan        chan *domain.JobMessage
	wg              sync.WaitGroup
	stopChan        chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:          cfg.Logger,
		rabbitClient:    cfg.RabbitClient,
		callback:        cfg.Callback,
		concurrency:     cfg.Concurrency,
		prefetchCount:   cfg.PrefetchCount,
		processingDelay: cfg.ProcessingDelay,
		workerID:        "worker-" + uuid.New().String()[:8],
		jobsChan:        make(chan *domain.JobMessage),
		stopChan:        make(chan struct{}),
	}
}

// Start begins consuming and processing jobs. It blocks until the
// context is canceled or the delivery channel closes; the latter is
// reported as ErrDeliveryChannelClosed.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("processing_delay", w.processingDelay),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	return w.startMessageDispatcher(ctx, deliveries)
}

// Stop gracefully stops the worker pool
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...",
		slog.String("worker_id", w.workerID),
	)
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
