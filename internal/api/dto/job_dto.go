package dto

import (
	"time"

	"github.com/dtsonov/jobprocessor/internal/api/model"
)

type CreateJobRequest struct {
	Prompt string `json:"prompt"`
}

// CallbackRequest is the payload an authorized worker posts to the
// completion webhook. Status is optional and defaults to COMPLETED;
// a worker reporting a failure sends FAILED with the reason in Result.
type CallbackRequest struct {
	JobID  string `json:"jobId"`
	Result string `json:"result"`
	Status string `json:"status,omitempty"`
}

// JobCreatedResponse is the public view returned on creation
type JobCreatedResponse struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// JobResponse is the full view returned by reads and the callback
type JobResponse struct {
	ID        string  `json:"id"`
	Prompt    string  `json:"prompt"`
	Status    string  `json:"status"`
	Result    *string `json:"result,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func NewJobCreatedResponse(job *model.Job) JobCreatedResponse {
	return JobCreatedResponse{
		ID:        job.JobID,
		Prompt:    job.Prompt,
		Status:    job.Status,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}
}

func NewJobResponse(job *model.Job) JobResponse {
	return JobResponse{
		ID:        job.JobID,
		Prompt:    job.Prompt,
		Status:    job.Status,
		Result:    job.Result,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
	}
}

func NewJobResponseList(jobs []model.Job) []JobResponse {
	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = NewJobResponse(&jobs[i])
	}
	return responses
}
