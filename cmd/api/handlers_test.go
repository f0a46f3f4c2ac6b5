package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymatsuda/captionize/internal/logging"
	"github.com/ymatsuda/captionize/pkg/models"
)

type fakeService struct {
	result *models.TranscriptResult
}

func (f *fakeService) GetTranscript(ctx context.Context, rawURL string) *models.TranscriptResult {
	return f.result
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.TranscriptJob
	err       error
}

func (f *fakePublisher) PublishJob(ctx context.Context, job *models.TranscriptJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, job)
	return nil
}

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]*models.JobState
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*models.JobState)}
}

func (f *fakeJobStore) SetJob(ctx context.Context, state *models.JobState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[state.ID] = state
	return nil
}

func (f *fakeJobStore) GetJob(ctx context.Context, jobID string) (*models.JobState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[jobID], nil
}

func setupTestRouter(t *testing.T, api *API) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", api.healthCheck)
	v1 := router.Group("/api/v1")
	v1.POST("/transcripts", api.createTranscript)
	v1.POST("/jobs", api.createJob)
	v1.GET("/jobs/:id", api.getJob)
	return router
}

func testAPI(t *testing.T, svc transcriptGetter, pub *fakePublisher, store *fakeJobStore) *API {
	t.Helper()
	log, err := logging.NewDefaultLogger()
	require.NoError(t, err)
	return &API{transcripts: svc, queue: pub, jobs: store, log: log}
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTranscript(t *testing.T) {
	svc := &fakeService{result: &models.TranscriptResult{
		Success:    true,
		Transcript: "こんにちは 世界。",
		Language:   "日本語",
	}}
	api := testAPI(t, svc, &fakePublisher{}, newFakeJobStore())
	router := setupTestRouter(t, api)

	w := postJSON(router, "/api/v1/transcripts", gin.H{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})

	require.Equal(t, http.StatusOK, w.Code)

	var result models.TranscriptResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "こんにちは 世界。", result.Transcript)
}

func TestCreateTranscript_PipelineFailureIsStillOK(t *testing.T) {
	// Pipeline failures are result payloads, not HTTP errors.
	svc := &fakeService{result: &models.TranscriptResult{
		Error: "この動画には字幕がありません",
		Metadata: &models.VideoMetadata{
			Title: "テスト動画",
		},
	}}
	api := testAPI(t, svc, &fakePublisher{}, newFakeJobStore())
	router := setupTestRouter(t, api)

	w := postJSON(router, "/api/v1/transcripts", gin.H{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})

	require.Equal(t, http.StatusOK, w.Code)

	var result models.TranscriptResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "テスト動画", result.Metadata.Title)
}

func TestCreateTranscript_MissingURL(t *testing.T) {
	api := testAPI(t, &fakeService{}, &fakePublisher{}, newFakeJobStore())
	router := setupTestRouter(t, api)

	w := postJSON(router, "/api/v1/transcripts", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateJob(t *testing.T) {
	pub := &fakePublisher{}
	store := newFakeJobStore()
	api := testAPI(t, &fakeService{}, pub, store)
	router := setupTestRouter(t, api)

	w := postJSON(router, "/api/v1/jobs", gin.H{"url": "https://youtu.be/dQw4w9WgXcQ"})

	require.Equal(t, http.StatusAccepted, w.Code)

	var state models.JobState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.NotEmpty(t, state.ID)
	assert.Equal(t, models.JobStatusQueued, state.Status)

	require.Len(t, pub.published, 1)
	assert.Equal(t, state.ID, pub.published[0].ID)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", pub.published[0].URL)
}

func TestCreateJob_PublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	api := testAPI(t, &fakeService{}, pub, newFakeJobStore())
	router := setupTestRouter(t, api)

	w := postJSON(router, "/api/v1/jobs", gin.H{"url": "https://youtu.be/dQw4w9WgXcQ"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetJob(t *testing.T) {
	store := newFakeJobStore()
	store.jobs["job-1"] = &models.JobState{
		ID:     "job-1",
		Status: models.JobStatusCompleted,
		Result: &models.TranscriptResult{Success: true, Transcript: "done"},
	}
	api := testAPI(t, &fakeService{}, &fakePublisher{}, store)
	router := setupTestRouter(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var state models.JobState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, models.JobStatusCompleted, state.Status)
	require.NotNil(t, state.Result)
	assert.Equal(t, "done", state.Result.Transcript)
}

func TestGetJob_NotFound(t *testing.T) {
	api := testAPI(t, &fakeService{}, &fakePublisher{}, newFakeJobStore())
	router := setupTestRouter(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	api := testAPI(t, &fakeService{}, &fakePublisher{}, newFakeJobStore())
	router := setupTestRouter(t, api)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
