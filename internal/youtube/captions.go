package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ymatsuda/captionize/pkg/models"
)

const (
	// browserUserAgent is sent on timed-text requests; YouTube serves
	// caption payloads more reliably to a conventional browser UA.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	// timedTextFormat selects the structured JSON variant of the
	// timed-text payload.
	timedTextFormat = "json3"
)

// RetrievalError indicates the timed-text payload could not be
// retrieved or decoded.
type RetrievalError struct {
	StatusCode int
	Reason     string
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("caption retrieval failed: %s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("caption retrieval failed: %s", e.Reason)
}

// rawTimedText mirrors YouTube's json3 timed-text payload. Fields we
// don't use (wpWinPosId, wWinId, ...) are ignored by the decoder.
type rawTimedText struct {
	Events []rawEvent `json:"events"`
}

type rawEvent struct {
	StartMs    *int64   `json:"tStartMs"`
	DurationMs *int64   `json:"dDurationMs"`
	Segs       []rawSeg `json:"segs"`
}

type rawSeg struct {
	UTF8 string `json:"utf8"`
}

// CaptionFetcher retrieves and decodes timed-text payloads for a
// selected caption track.
type CaptionFetcher struct {
	client *http.Client
}

// NewCaptionFetcher creates a fetcher with the given HTTP client. A
// nil client gets a default with a 15 second timeout.
func NewCaptionFetcher(client *http.Client) *CaptionFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &CaptionFetcher{client: client}
}

// FetchSegments performs one retrieval of the track's timed-text
// payload and decodes it into ordered caption segments.
func (f *CaptionFetcher) FetchSegments(ctx context.Context, trackURL string) ([]models.CaptionSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, withFormat(trackURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create caption request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RetrievalError{StatusCode: resp.StatusCode, Reason: "unexpected status"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption payload: %w", err)
	}

	return decodeTimedText(body)
}

// decodeTimedText converts a json3 payload into caption segments.
// An event contributes a segment only if it carries a start time and
// at least one non-empty text sub-segment; sub-segment texts are
// trimmed and concatenated with no separator. Input event order is
// preserved.
func decodeTimedText(payload []byte) ([]models.CaptionSegment, error) {
	var raw rawTimedText
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &RetrievalError{Reason: "payload is not valid JSON"}
	}
	if raw.Events == nil {
		return nil, &RetrievalError{Reason: "payload has no events container"}
	}

	segments := make([]models.CaptionSegment, 0, len(raw.Events))
	for _, ev := range raw.Events {
		if ev.StartMs == nil || len(ev.Segs) == 0 {
			continue
		}

		var sb strings.Builder
		for _, seg := range ev.Segs {
			text := strings.TrimSpace(seg.UTF8)
			if text == "" {
				continue
			}
			sb.WriteString(text)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}

		var duration int64
		if ev.DurationMs != nil {
			duration = *ev.DurationMs
		}

		segments = append(segments, models.CaptionSegment{
			Text:       text,
			StartMs:    *ev.StartMs,
			DurationMs: duration,
		})
	}

	return segments, nil
}

// withFormat appends the json3 format selector to a track URL.
func withFormat(trackURL string) string {
	sep := "?"
	if strings.Contains(trackURL, "?") {
		sep = "&"
	}
	return trackURL + sep + "fmt=" + timedTextFormat
}
