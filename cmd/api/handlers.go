package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ymatsuda/captionize/internal/logging"
	"github.com/ymatsuda/captionize/internal/metrics"
	"github.com/ymatsuda/captionize/pkg/models"
)

// transcriptGetter runs the synchronous transcript pipeline.
type transcriptGetter interface {
	GetTranscript(ctx context.Context, rawURL string) *models.TranscriptResult
}

// jobPublisher publishes async transcript jobs.
type jobPublisher interface {
	PublishJob(ctx context.Context, job *models.TranscriptJob) error
}

// jobStore tracks async job state.
type jobStore interface {
	SetJob(ctx context.Context, state *models.JobState) error
	GetJob(ctx context.Context, jobID string) (*models.JobState, error)
}

// API holds the handler dependencies.
type API struct {
	transcripts transcriptGetter
	queue       jobPublisher
	jobs        jobStore
	log         *logging.Logger
}

type transcriptRequest struct {
	URL string `json:"url" binding:"required"`
}

// createTranscript runs the pipeline synchronously and returns the
// result. Pipeline failures are part of the result body, not HTTP
// errors; only a malformed request is a 400.
func (api *API) createTranscript(c *gin.Context) {
	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result := api.transcripts.GetTranscript(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, result)
}

// createJob enqueues an async transcript job and returns its ID.
func (api *API) createJob(c *gin.Context) {
	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	job := &models.TranscriptJob{
		ID:        uuid.New().String(),
		URL:       req.URL,
		CreatedAt: time.Now(),
	}

	state := &models.JobState{
		ID:          job.ID,
		Status:      models.JobStatusQueued,
		SubmittedAt: job.CreatedAt,
	}
	if err := api.jobs.SetJob(c.Request.Context(), state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record job"})
		return
	}

	if err := api.queue.PublishJob(c.Request.Context(), job); err != nil {
		api.log.WithJobID(job.ID).WithError(err).Error("failed to publish job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue job"})
		return
	}

	metrics.JobsPublishedTotal.Inc()
	api.log.LogJobEvent(job.ID, "published", models.JobStatusQueued)

	c.JSON(http.StatusAccepted, state)
}

// getJob reports an async job's state, including the finished result.
func (api *API) getJob(c *gin.Context) {
	jobID := c.Param("id")

	state, err := api.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, state)
}

// healthCheck reports service liveness.
func (api *API) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
