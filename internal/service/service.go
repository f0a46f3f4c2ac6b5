// Package service runs the transcript pipeline: URL validation, video
// resolution, caption track selection, timed-text retrieval and
// paragraph formatting, with retries around the network stages.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ymatsuda/captionize/internal/logging"
	"github.com/ymatsuda/captionize/internal/metrics"
	"github.com/ymatsuda/captionize/internal/tracing"
	"github.com/ymatsuda/captionize/internal/transcript"
	"github.com/ymatsuda/captionize/internal/youtube"
	"github.com/ymatsuda/captionize/pkg/models"
)

// ResultCache caches finished transcript results. A nil cache disables
// caching.
type ResultCache interface {
	GetResult(ctx context.Context, key string) (*models.TranscriptResult, error)
	SetResult(ctx context.Context, key string, result *models.TranscriptResult) error
}

// Options configures the pipeline.
type Options struct {
	// PreferredLanguages is the ordered language preference for track
	// selection.
	PreferredLanguages []string
	// RetryAttempts is the number of additional attempts after the
	// first failure.
	RetryAttempts int
	// RetryBackoff is the base delay between attempts; it grows
	// linearly with the attempt number.
	RetryBackoff time.Duration
}

// Service is the transcript pipeline. All per-request state lives on
// the call stack; the only shared mutable state is the session manager.
type Service struct {
	sessions *youtube.SessionManager
	fetcher  *youtube.CaptionFetcher
	cache    ResultCache
	log      *logging.Logger
	opts     Options
}

// New creates a transcript service.
func New(sessions *youtube.SessionManager, fetcher *youtube.CaptionFetcher, cache ResultCache, log *logging.Logger, opts Options) *Service {
	if len(opts.PreferredLanguages) == 0 {
		opts.PreferredLanguages = []string{"ja", "en"}
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 2
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Second
	}
	return &Service{
		sessions: sessions,
		fetcher:  fetcher,
		cache:    cache,
		log:      log,
		opts:     opts,
	}
}

// attemptOutcome carries one attempt's partial progress so metadata
// survives a failure.
type attemptOutcome struct {
	metadata *models.VideoMetadata
	track    *models.CaptionTrack
	segments []models.CaptionSegment
}

// GetTranscript runs the whole pipeline for one raw URL and always
// returns a result, never an error: failures surface as a
// human-readable message with any metadata already obtained.
func (s *Service) GetTranscript(ctx context.Context, rawURL string) *models.TranscriptResult {
	span, ctx := tracing.StartSpan(ctx, "service.GetTranscript")
	defer tracing.FinishSpan(span)

	start := time.Now()
	result := s.getTranscript(ctx, rawURL)

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	tracing.SetTag(span, "outcome", outcome)
	metrics.TranscriptRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	return result
}

func (s *Service) getTranscript(ctx context.Context, rawURL string) *models.TranscriptResult {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return &models.TranscriptResult{Error: msgEmptyURL}
	}

	videoID, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		return &models.TranscriptResult{Error: msgInvalidURL}
	}

	log := s.log.WithVideoID(videoID)

	cacheKey := resultCacheKey(videoID, s.opts.PreferredLanguages)
	if s.cache != nil {
		if cached, err := s.cache.GetResult(ctx, cacheKey); err != nil {
			log.WithError(err).Warn("result cache lookup failed")
		} else if cached != nil {
			metrics.CacheHitsTotal.Inc()
			return cached
		}
	}

	var outcome attemptOutcome
	var lastErr error
	var metadata *models.VideoMetadata

	for attempt := 0; attempt <= s.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			// A stale session is the usual culprit for transient
			// failures; recreate it before trying again.
			s.sessions.Invalidate()
			metrics.PipelineRetriesTotal.Inc()

			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
			case <-time.After(s.opts.RetryBackoff * time.Duration(attempt)):
			}
			if ctx.Err() != nil {
				break
			}
		}

		out, err := s.attempt(ctx, videoID)
		if out.metadata != nil {
			metadata = out.metadata
		}
		if err == nil {
			outcome = out
			lastErr = nil
			break
		}

		lastErr = err
		var noCaptions *noCaptionsError
		if errors.As(err, &noCaptions) {
			// Caption absence is definitive; retrying cannot help.
			break
		}
		log.WithError(err).Warnf("transcript attempt %d failed", attempt+1)
	}

	if lastErr != nil {
		var noCaptions *noCaptionsError
		if errors.As(lastErr, &noCaptions) {
			return &models.TranscriptResult{Error: msgNoCaptions, Metadata: metadata}
		}
		return &models.TranscriptResult{Error: classifyError(lastErr), Metadata: metadata}
	}

	result := &models.TranscriptResult{
		Success:    true,
		Transcript: transcript.Format(outcome.segments),
		Language:   transcript.TranslateLabel(outcome.track.Name),
		Metadata:   outcome.metadata,
	}

	if s.cache != nil {
		if err := s.cache.SetResult(ctx, cacheKey, result); err != nil {
			log.WithError(err).Warn("result cache store failed")
		}
	}

	log.Infof("transcript ready: %d segments, track %s", len(outcome.segments), outcome.track.LanguageCode)
	return result
}

// attempt runs one full pass: session acquisition through segment
// fetch.
func (s *Service) attempt(ctx context.Context, videoID string) (attemptOutcome, error) {
	var out attemptOutcome

	provider, err := s.sessions.Acquire(ctx)
	if err != nil {
		return out, err
	}

	info, err := provider.ResolveVideo(ctx, videoID)
	if err != nil {
		return out, err
	}
	out.metadata = &info.Metadata

	if len(info.Tracks) == 0 {
		return out, &noCaptionsError{reason: "video has no caption tracks"}
	}

	track := youtube.SelectTrack(info.Tracks, s.opts.PreferredLanguages)
	if track.BaseURL == "" {
		return out, &noCaptionsError{reason: "selected track has no fetch URL"}
	}
	out.track = track

	segments, err := s.fetcher.FetchSegments(ctx, track.BaseURL)
	if err != nil {
		return out, err
	}
	if len(segments) == 0 {
		return out, &noCaptionsError{reason: "track decoded to no segments"}
	}
	out.segments = segments

	metrics.CaptionSegmentsDecoded.Observe(float64(len(segments)))
	return out, nil
}

func resultCacheKey(videoID string, languages []string) string {
	return videoID + ":" + strings.Join(languages, ",")
}
