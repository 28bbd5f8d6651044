package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/model"
	"github.com/google/uuid"
)

// JobStore is the persistence contract for jobs. Finish must be atomic:
// a concurrent read observes either the pre-transition or post-transition
// record, never a status without its result.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, jobID string) (*model.Job, error)
	List(ctx context.Context) ([]model.Job, error)
	Finish(ctx context.Context, jobID, status, result string) (*model.Job, error)
}

// Dispatcher hands a freshly created job to the processing pipeline.
// The job service never blocks job creation on dispatch problems.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *model.Job) error
}

// JobService owns the job lifecycle: creation, reads, and the single
// completion transition.
type JobService struct {
	store      JobStore
	dispatcher Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewJobService creates a JobService. dispatcher may be nil when no
// processing pipeline is attached (e.g. in tests).
func NewJobService(store JobStore, dispatcher Dispatcher, logger *slog.Logger) *JobService {
	return &JobService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates the prompt, persists a new PENDING job, and dispatches
// it for processing. Dispatch failures are logged but do not fail the
// request; the job stays PENDING until a callback arrives.
func (s *JobService) Create(ctx context.Context, prompt string) (*model.Job, error) {
	trimmed := strings.TrimSpace(prompt)
	// Length bounds are in characters, not bytes
	length := utf8.RuneCountInString(trimmed)
	if length < domain.MinPromptLength || length > domain.MaxPromptLength {
		return nil, domain.NewValidationError(
			"prompt must be between %d and %d characters after trimming whitespace",
			domain.MinPromptLength, domain.MaxPromptLength,
		)
	}

	now := s.now()
	job := &model.Job{
		JobID:     uuid.New().String(),
		Prompt:    trimmed,
		Status:    domain.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, err
	}

	// Dispatch only after the insert succeeded so a failed create never
	// leaves a processing task for a job that does not exist.
	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, job); err != nil {
			s.logger.Error("Failed to dispatch job for processing",
				slog.String("job_id", job.JobID),
				slog.String("error", err.Error()),
			)
		}
	}

	return job, nil
}

// Get returns the job's current view or domain.ErrJobNotFound
func (s *JobService) Get(ctx context.Context, jobID string) (*model.Job, error) {
	if jobID == "" {
		return nil, domain.NewValidationError("job id is required")
	}
	return s.store.GetByID(ctx, jobID)
}

// List returns all jobs, most recently created first
func (s *JobService) List(ctx context.Context) ([]model.Job, error) {
	return s.store.List(ctx)
}

// Complete transitions a PENDING job to COMPLETED, storing the result
// verbatim. A terminal job yields domain.ErrJobAlreadyFinished.
func (s *JobService) Complete(ctx context.Context, jobID, result string) (*model.Job, error) {
	return s.finish(ctx, jobID, domain.JobStatusCompleted, result)
}

// Fail transitions a PENDING job to FAILED, storing the reason as its result
func (s *JobService) Fail(ctx context.Context, jobID, reason string) (*model.Job, error) {
	return s.finish(ctx, jobID, domain.JobStatusFailed, reason)
}

func (s *JobService) finish(ctx context.Context, jobID, status, result string) (*model.Job, error) {
	// Input checks precede the lookup so a bad payload never touches storage
	if jobID == "" {
		return nil, domain.NewValidationError("jobId is required")
	}
	if result == "" {
		return nil, domain.NewValidationError("result is required")
	}

	job, err := s.store.Finish(ctx, jobID, status, result)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job finished",
		slog.String("job_id", job.JobID),
		slog.String("status", job.Status),
	)

	return job, nil
}
