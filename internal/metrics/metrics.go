package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captionize_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "captionize_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Pipeline Metrics
	TranscriptRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captionize_transcript_requests_total",
			Help: "Total number of transcript pipeline runs",
		},
		[]string{"outcome"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "captionize_pipeline_duration_seconds",
			Help:    "End-to-end transcript pipeline duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1 minute
		},
	)

	PipelineRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "captionize_pipeline_retries_total",
			Help: "Total number of pipeline retry attempts",
		},
	)

	CaptionSegmentsDecoded = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "captionize_caption_segments_decoded",
			Help:    "Number of caption segments decoded per fetched track",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10 to ~10k
		},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "captionize_cache_hits_total",
			Help: "Total number of transcript result cache hits",
		},
	)

	// Job Metrics
	JobsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "captionize_jobs_published_total",
			Help: "Total number of async transcript jobs published",
		},
	)

	JobsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "captionize_jobs_processed_total",
			Help: "Total number of async transcript jobs processed",
		},
		[]string{"status"},
	)
)
