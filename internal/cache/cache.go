// Package cache provides Redis-backed caching of finished transcript
// results and async job state.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ymatsuda/captionize/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client    *redis.Client
	resultTTL time.Duration
	jobTTL    time.Duration
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int, resultTTL, jobTTL time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, resultTTL: resultTTL, jobTTL: jobTTL}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Transcript Result Operations

// SetResult caches a finished transcript result under its pipeline key
// (video ID plus language preference).
func (c *Cache) SetResult(ctx context.Context, key string, result *models.TranscriptResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	return c.client.Set(ctx, "result:"+key, data, c.resultTTL).Err()
}

// GetResult retrieves a cached transcript result. A cache miss returns
// (nil, nil).
func (c *Cache) GetResult(ctx context.Context, key string) (*models.TranscriptResult, error) {
	data, err := c.client.Get(ctx, "result:"+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get result from cache: %w", err)
	}

	var result models.TranscriptResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Job State Operations

// SetJob stores an async job's state
func (c *Cache) SetJob(ctx context.Context, state *models.JobState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal job state: %w", err)
	}

	return c.client.Set(ctx, "job:"+state.ID, data, c.jobTTL).Err()
}

// GetJob retrieves an async job's state. A miss returns (nil, nil).
func (c *Cache) GetJob(ctx context.Context, jobID string) (*models.JobState, error) {
	data, err := c.client.Get(ctx, "job:"+jobID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job state from cache: %w", err)
	}

	var state models.JobState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job state: %w", err)
	}

	return &state, nil
}

// DeleteJob removes an async job's state
func (c *Cache) DeleteJob(ctx context.Context, jobID string) error {
	return c.client.Del(ctx, "job:"+jobID).Err()
}
