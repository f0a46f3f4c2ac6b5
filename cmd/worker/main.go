package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ymatsuda/captionize/internal/cache"
	"github.com/ymatsuda/captionize/internal/config"
	"github.com/ymatsuda/captionize/internal/logging"
	"github.com/ymatsuda/captionize/internal/metrics"
	"github.com/ymatsuda/captionize/internal/queue"
	"github.com/ymatsuda/captionize/internal/service"
	"github.com/ymatsuda/captionize/internal/tracing"
	"github.com/ymatsuda/captionize/internal/youtube"
	"github.com/ymatsuda/captionize/pkg/models"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName+"-worker", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatalf("failed to initialize tracing: %v", err)
		}
		defer closer.Close()
	}

	store, err := cache.NewCache(
		cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB,
		cfg.Cache.ResultTTL, cfg.Cache.JobTTL,
	)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer store.Close()

	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatalf("failed to connect to queue: %v", err)
	}
	defer q.Close()

	sessions := youtube.NewSessionManager()
	fetcher := youtube.NewCaptionFetcher(&http.Client{Timeout: cfg.YouTube.RequestTimeout})

	var svcCache service.ResultCache
	if cfg.Cache.Enabled {
		svcCache = store
	}
	svc := service.New(sessions, fetcher, svcCache, log, service.Options{
		PreferredLanguages: cfg.YouTube.PreferredLanguages,
		RetryAttempts:      cfg.YouTube.RetryAttempts,
		RetryBackoff:       cfg.YouTube.RetryBackoff,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("shutting down worker")
		cancel()
	}()

	// The worker exposes /metrics and /health on its own port.
	metricsServer := metrics.NewServer(cfg.Metrics.Port)
	go func() {
		if err := metricsServer.Start(); err != nil {
			log.Errorf("metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		metricsServer.Shutdown(shutdownCtx)
	}()

	jobHandler := func(job *models.TranscriptJob) error {
		jobLog := log.WithJobID(job.ID)
		jobLog.LogJobEvent(job.ID, "received", models.JobStatusProcessing)

		state := &models.JobState{
			ID:          job.ID,
			Status:      models.JobStatusProcessing,
			SubmittedAt: job.CreatedAt,
		}
		if err := store.SetJob(ctx, state); err != nil {
			jobLog.WithError(err).Warn("failed to record job progress")
		}

		result := svc.GetTranscript(ctx, job.URL)

		now := time.Now()
		state.Result = result
		state.CompletedAt = &now
		if result.Success {
			state.Status = models.JobStatusCompleted
		} else {
			state.Status = models.JobStatusFailed
		}

		if err := store.SetJob(ctx, state); err != nil {
			jobLog.WithError(err).Error("failed to store job result")
			return err
		}

		metrics.JobsProcessedTotal.WithLabelValues(state.Status).Inc()
		jobLog.LogJobEvent(job.ID, "finished", state.Status)
		return nil
	}

	log.Info("worker started, waiting for jobs")
	if err := q.ConsumeJobs(ctx, jobHandler); err != nil {
		log.Fatalf("failed to consume jobs: %v", err)
	}

	<-ctx.Done()
	log.Info("worker stopped")
}
