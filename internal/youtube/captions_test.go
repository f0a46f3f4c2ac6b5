package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTimedText(t *testing.T) {
	payload := []byte(`{
		"wireMagic": "pb3",
		"events": [
			{"tStartMs": 0, "dDurationMs": 1000, "segs": [{"utf8": "こんにちは"}]},
			{"tStartMs": 1200, "segs": [{"utf8": " Hello "}, {"utf8": ""}, {"utf8": " world "}]},
			{"tStartMs": 3000, "dDurationMs": 500, "segs": [{"utf8": "  "}, {"utf8": "\n"}]},
			{"dDurationMs": 800, "segs": [{"utf8": "no start time"}]},
			{"tStartMs": 5000, "dDurationMs": 700}
		]
	}`)

	segments, err := decodeTimedText(payload)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, "こんにちは", segments[0].Text)
	assert.Equal(t, int64(0), segments[0].StartMs)
	assert.Equal(t, int64(1000), segments[0].DurationMs)

	// Sub-segment texts are trimmed and concatenated without a
	// separator; missing duration defaults to 0.
	assert.Equal(t, "Helloworld", segments[1].Text)
	assert.Equal(t, int64(1200), segments[1].StartMs)
	assert.Equal(t, int64(0), segments[1].DurationMs)
}

func TestDecodeTimedText_MissingEvents(t *testing.T) {
	var retrieval *RetrievalError

	_, err := decodeTimedText([]byte(`{"wireMagic": "pb3"}`))
	require.Error(t, err)
	assert.True(t, errors.As(err, &retrieval))

	_, err = decodeTimedText([]byte(`not json`))
	require.Error(t, err)
	assert.True(t, errors.As(err, &retrieval))
}

func TestDecodeTimedText_EmptyEvents(t *testing.T) {
	segments, err := decodeTimedText([]byte(`{"events": []}`))
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestFetchSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json3", r.URL.Query().Get("fmt"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"events": [{"tStartMs": 100, "dDurationMs": 900, "segs": [{"utf8": "hi"}]}]}`))
	}))
	defer server.Close()

	fetcher := NewCaptionFetcher(server.Client())
	segments, err := fetcher.FetchSegments(context.Background(), server.URL+"/timedtext?v=abc")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "hi", segments[0].Text)
	assert.Equal(t, int64(100), segments[0].StartMs)
	assert.Equal(t, int64(900), segments[0].DurationMs)
}

func TestFetchSegments_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewCaptionFetcher(server.Client())
	_, err := fetcher.FetchSegments(context.Background(), server.URL+"/timedtext")

	var retrieval *RetrievalError
	require.Error(t, err)
	require.True(t, errors.As(err, &retrieval))
	assert.Equal(t, http.StatusNotFound, retrieval.StatusCode)
}

func TestWithFormat(t *testing.T) {
	assert.Equal(t, "https://x/tt?fmt=json3", withFormat("https://x/tt"))
	assert.Equal(t, "https://x/tt?v=1&fmt=json3", withFormat("https://x/tt?v=1"))
}
