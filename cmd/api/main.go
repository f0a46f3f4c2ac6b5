package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ymatsuda/captionize/internal/cache"
	"github.com/ymatsuda/captionize/internal/config"
	"github.com/ymatsuda/captionize/internal/logging"
	"github.com/ymatsuda/captionize/internal/middleware"
	"github.com/ymatsuda/captionize/internal/queue"
	"github.com/ymatsuda/captionize/internal/service"
	"github.com/ymatsuda/captionize/internal/tracing"
	"github.com/ymatsuda/captionize/internal/youtube"
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
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatalf("failed to initialize tracing: %v", err)
		}
		defer closer.Close()
	}

	// Redis backs both the result cache and async job state, so the
	// connection is not optional; cache.enabled only gates result reuse.
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

	api := &API{
		transcripts: svc,
		queue:       q,
		jobs:        store,
		log:         log,
	}

	router := setupRouter(api, log, cfg.RateLimit)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}

func setupRouter(api *API, log *logging.Logger, rl config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", api.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(rl.RPS, rl.Burst)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter))
	{
		v1.POST("/transcripts", api.createTranscript)
		v1.POST("/jobs", api.createJob)
		v1.GET("/jobs/:id", api.getJob)
	}

	return router
}
