package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/model"
)

// MemoryStorage is an in-memory job store with the same atomicity
// guarantees as the Postgres store. Used by tests and local runs
// without a database.
type MemoryStorage struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		jobs: make(map[string]*model.Job),
	}
}

func (s *MemoryStorage) Create(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *job
	s.jobs[job.JobID] = &clone
	return nil
}

func (s *MemoryStorage) GetByID(_ context.Context, jobID string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	clone := *job
	return &clone, nil
}

func (s *MemoryStorage) List(_ context.Context) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].JobID > jobs[j].JobID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	return jobs, nil
}

func (s *MemoryStorage) Finish(_ context.Context, jobID, status, result string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	if job.Status != domain.JobStatusPending {
		return nil, domain.ErrJobAlreadyFinished
	}

	job.Status = status
	job.Result = &result
	job.UpdatedAt = time.Now()

	clone := *job
	return &clone, nil
}
