package router

import (
	"net/http"

	"github.com/dtsonov/jobprocessor/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	jobHandler := handler.NewJobHandler(deps)

	jobs := r.Group("/jobs")
	{
		// POST /jobs - Submit a new job
		jobs.POST("", jobHandler.CreateJob)

		// GET /jobs - List all jobs, newest first
		jobs.GET("", jobHandler.ListJobs)

		// GET /jobs/:job_id - Get job details
		jobs.GET("/:job_id", jobHandler.GetJob)

		// POST /jobs/webhook/callback - Worker completion callback,
		// gated by the shared webhook secret
		jobs.POST("/webhook/callback",
			WebhookAuthMiddleware(deps.WebhookSecret, deps.Logger),
			jobHandler.CompleteJob,
		)
	}

	return r
}
