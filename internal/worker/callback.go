package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apidomain "github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/dto"
	"github.com/dtsonov/jobprocessor/internal/worker/domain"
)

const callbackPath = "/jobs/webhook/callback"

// CallbackClient delivers completion notifications to the API's webhook
// endpoint, authenticated with the shared secret.
type CallbackClient struct {
	httpClient *http.Client
	baseURL    string
	secret     string
	logger     *slog.Logger
}

// NewCallbackClient creates a callback client. baseURL is the API root,
// e.g. http://localhost:8080.
func NewCallbackClient(baseURL, secret string, timeout time.Duration, logger *slog.Logger) *CallbackClient {
	return &CallbackClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		secret:     secret,
		logger:     logger,
	}
}

// Complete reports a successful result for the job
func (c *CallbackClient) Complete(ctx context.Context, jobID, result string) error {
	return c.post(ctx, dto.CallbackRequest{
		JobID:  jobID,
		Result: result,
	})
}

// Fail reports a processing failure for the job
func (c *CallbackClient) Fail(ctx context.Context, jobID, reason string) error {
	return c.post(ctx, dto.CallbackRequest{
		JobID:  jobID,
		Result: reason,
		Status: apidomain.JobStatusFailed,
	})
}

func (c *CallbackClient) post(ctx context.Context, payload dto.CallbackRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+callbackPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-webhook-secret", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport problems may be transient
		return domain.NewRetryableError(fmt.Errorf("callback request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("Callback delivered",
			slog.String("job_id", payload.JobID),
			slog.Int("status", resp.StatusCode),
		)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 500 {
		return domain.NewRetryableError(&domain.CallbackError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		})
	}

	return &domain.CallbackError{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
}
