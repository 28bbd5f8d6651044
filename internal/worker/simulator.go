package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dtsonov/jobprocessor/internal/worker/domain"
)

// processJob simulates processing a single job: wait the configured
// delay, fabricate a result, and report it through the callback.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	w.logger.Info("Processing job",
		slog.String("job_id", msg.JobID),
		slog.String("worker_id", w.workerID),
	)

	if strings.TrimSpace(msg.Prompt) == "" {
		// The API validates prompts on creation, so an empty prompt here
		// means a corrupted message. Report the failure upstream.
		return w.reportFailure(ctx, msg.JobID, "job message carried an empty prompt")
	}

	// Simulated work; only this background task waits, never a client
	select {
	case <-time.After(w.processingDelay):
	case <-ctx.Done():
		return domain.NewRetryableError(fmt.Errorf("processing canceled: %w", ctx.Err()))
	}

	result := domain.NewSimulationResult(msg.JobID, time.Now())
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal simulation result: %w", err)
	}

	if err := w.callback.Complete(ctx, msg.JobID, string(payload)); err != nil {
		return w.interpretCallbackError(msg.JobID, err)
	}

	w.logger.Info("Job completed via callback",
		slog.String("job_id", msg.JobID),
	)

	return nil
}

func (w *Worker) reportFailure(ctx context.Context, jobID, reason string) error {
	if err := w.callback.Fail(ctx, jobID, reason); err != nil {
		return w.interpretCallbackError(jobID, err)
	}

	w.logger.Warn("Job marked failed via callback",
		slog.String("job_id", jobID),
		slog.String("reason", reason),
	)

	return nil
}

// interpretCallbackError downgrades a conflict to success: the job is
// already terminal, so the delivery is done as far as we are concerned.
func (w *Worker) interpretCallbackError(jobID string, err error) error {
	var callbackErr *domain.CallbackError
	if errors.As(err, &callbackErr) && callbackErr.StatusCode == http.StatusConflict {
		w.logger.Warn("Job already finished, dropping duplicate callback",
			slog.String("job_id", jobID),
		)
		return nil
	}
	return err
}
