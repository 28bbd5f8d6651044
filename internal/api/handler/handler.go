package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/service"
	"github.com/gin-gonic/gin"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger        *slog.Logger
	JobService    *service.JobService
	WebhookSecret string
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger  *slog.Logger
	service *service.JobService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:  deps.Logger,
		service: deps.JobService,
	}
}

// respondError translates domain errors into structured HTTP responses.
// Storage and other unexpected failures surface as a generic 500 so no
// internal detail leaks to the client.
func (h *JobHandler) respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Msg,
			"code":  "VALIDATION_ERROR",
		})
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "job not found",
			"code":  "NOT_FOUND",
		})
	case errors.Is(err, domain.ErrJobAlreadyFinished):
		c.JSON(http.StatusConflict, gin.H{
			"error": "job already finished",
			"code":  "CONFLICT",
		})
	default:
		h.logger.Error("Internal error",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
			"code":  "INTERNAL_ERROR",
		})
	}
}
