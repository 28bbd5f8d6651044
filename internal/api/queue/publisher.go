package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dtsonov/jobprocessor/internal/api/model"
	"github.com/dtsonov/jobprocessor/shared/rabbitmq"
)

// Publisher dispatches created jobs onto the processing queue. It is the
// RabbitMQ implementation of the job service's Dispatcher.
type Publisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

func NewPublisher(client *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// Dispatch publishes the job id and prompt as a persistent JSON message
func (p *Publisher) Dispatch(ctx context.Context, job *model.Job) error {
	msg := struct {
		JobID  string `json:"job_id"`
		Prompt string `json:"prompt"`
	}{
		JobID:  job.JobID,
		Prompt: job.Prompt,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal job message: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish job message: %w", err)
	}

	p.logger.Debug("Job dispatched to processing queue",
		slog.String("job_id", job.JobID),
	)

	return nil
}
