package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Queue     QueueConfig
	YouTube   YouTubeConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// YouTubeConfig holds transcript pipeline configuration
type YouTubeConfig struct {
	PreferredLanguages []string
	RetryAttempts      int
	RetryBackoff       time.Duration
	RequestTimeout     time.Duration
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Enabled   bool
	ResultTTL time.Duration
	JobTTL    time.Duration
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
}

// MetricsConfig holds the standalone metrics server configuration
type MetricsConfig struct {
	Port int
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Queue defaults
	viper.SetDefault("queue.host", "localhost")
	viper.SetDefault("queue.port", 5672)
	viper.SetDefault("queue.user", "guest")
	viper.SetDefault("queue.password", "guest")
	viper.SetDefault("queue.vhost", "/")

	// YouTube pipeline defaults
	viper.SetDefault("youtube.preferredLanguages", []string{"ja", "en"})
	viper.SetDefault("youtube.retryAttempts", 2)
	viper.SetDefault("youtube.retryBackoff", "1s")
	viper.SetDefault("youtube.requestTimeout", "15s")

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.resultTTL", "6h")
	viper.SetDefault("cache.jobTTL", "24h")

	// Rate limit defaults
	viper.SetDefault("ratelimit.rps", 5)
	viper.SetDefault("ratelimit.burst", 10)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "captionize")
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")

	// Metrics defaults
	viper.SetDefault("metrics.port", 9091)
}
