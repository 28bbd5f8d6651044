package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/model"
	"github.com/dtsonov/jobprocessor/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// Storage is the Postgres-backed job store
type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) Create(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, prompt, status, result, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.Prompt,
		job.Status,
		job.Result,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	query := `
		SELECT job_id, prompt, status, result, created_at, updated_at
		FROM jobs
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *Storage) List(ctx context.Context) ([]model.Job, error) {
	// job_id breaks created_at ties for a stable order
	query := `
		SELECT job_id, prompt, status, result, created_at, updated_at
		FROM jobs
		ORDER BY created_at DESC, job_id DESC
	`

	jobs := []model.Job{}
	err := s.db.SelectContext(ctx, &jobs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// Finish performs the single PENDING -> terminal transition as one
// conditional update, so status and result can never be observed apart.
func (s *Storage) Finish(ctx context.Context, jobID, status, result string) (*model.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    result = $2,
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status = $4
		RETURNING job_id, prompt, status, result, created_at, updated_at
	`

	var job model.Job
	err := s.db.QueryRowxContext(ctx, query, status, result, jobID, domain.JobStatusPending).StructScan(&job)
	if err == nil {
		return &job, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to finish job: %w", err)
	}

	// No row matched: either the job does not exist or it is already
	// terminal. Look it up to tell the two apart.
	if _, getErr := s.GetByID(ctx, jobID); getErr != nil {
		return nil, getErr
	}

	return nil, domain.ErrJobAlreadyFinished
}
