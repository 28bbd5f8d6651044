package handler

import (
	"log/slog"
	"net/http"

	"github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/dto"
	"github.com/dtsonov/jobprocessor/internal/api/model"
	"github.com/gin-gonic/gin"
)

// CreateJob handles POST /jobs
// Creates a new job in PENDING state and dispatches it for processing
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	job, err := h.service.Create(c.Request.Context(), req.Prompt)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.JobID),
	)

	c.JSON(http.StatusCreated, dto.NewJobCreatedResponse(job))
}

// GetJob handles GET /jobs/:job_id
// Retrieves the current full view of a job
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.service.Get(c.Request.Context(), jobID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobResponse(job))
}

// ListJobs handles GET /jobs
// Lists all jobs, most recently created first
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobResponseList(jobs))
}

// CompleteJob handles POST /jobs/webhook/callback
// Receives a completion (or failure) notification from an authorized
// worker. The webhook secret has already been checked by the router
// middleware before this handler runs.
func (h *JobHandler) CompleteJob(c *gin.Context) {
	var req dto.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
			"code":  "VALIDATION_ERROR",
		})
		return
	}

	var updated *model.Job
	var err error

	switch req.Status {
	case "", domain.JobStatusCompleted:
		updated, err = h.service.Complete(c.Request.Context(), req.JobID, req.Result)
	case domain.JobStatusFailed:
		updated, err = h.service.Fail(c.Request.Context(), req.JobID, req.Result)
	default:
		err = domain.NewValidationError("status must be %s or %s",
			domain.JobStatusCompleted, domain.JobStatusFailed)
	}

	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewJobResponse(updated))
}
