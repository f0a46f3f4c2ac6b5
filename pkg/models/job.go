package models

import "time"

// TranscriptJob is the envelope published to the queue for asynchronous
// transcript requests.
type TranscriptJob struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Languages []string  `json:"languages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// JobState tracks an asynchronous job's lifecycle in the cache.
type JobState struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Result      *TranscriptResult `json:"result,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// JobStatus constants
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
