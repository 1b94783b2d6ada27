package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SarthakGarg19/social-support-ai/internal/application/port"
	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a run snapshot stays cached after its last write
const DefaultTTL = 24 * time.Hour

const keyPrefix = "intake:run:"

// Config holds redis connection settings
type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisRunStateCache implements port.RunStateCache on redis
type RedisRunStateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisRunStateCache connects to redis with pooled, time-bounded connections
func NewRedisRunStateCache(cfg Config, logger *zap.Logger) *RedisRunStateCache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return NewRedisRunStateCacheWithClient(client, cfg.TTL, logger)
}

// NewRedisRunStateCacheWithClient wraps an existing client
func NewRedisRunStateCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRunStateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRunStateCache{client: client, ttl: ttl, logger: logger}
}

func key(applicantID string) string {
	return keyPrefix + applicantID
}

// Put stores the snapshot under the applicant's key
func (c *RedisRunStateCache) Put(ctx context.Context, snapshot *entity.WorkflowSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key(snapshot.ApplicantID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache run state",
			zap.String("applicant_id", snapshot.ApplicantID),
			zap.Error(err))
		return fmt.Errorf("failed to cache run state: %w", err)
	}
	return nil
}

// Get returns port.ErrNotFound on a miss
func (c *RedisRunStateCache) Get(ctx context.Context, applicantID string) (*entity.WorkflowSnapshot, error) {
	data, err := c.client.Get(ctx, key(applicantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("run state for %s: %w", applicantID, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run state: %w", err)
	}

	var snapshot entity.WorkflowSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run state: %w", err)
	}
	return &snapshot, nil
}

// Delete drops the applicant's cached snapshot
func (c *RedisRunStateCache) Delete(ctx context.Context, applicantID string) error {
	if err := c.client.Del(ctx, key(applicantID)).Err(); err != nil {
		return fmt.Errorf("failed to delete run state: %w", err)
	}
	return nil
}

// Ping tests the redis connection
func (c *RedisRunStateCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the redis connection
func (c *RedisRunStateCache) Close() error {
	return c.client.Close()
}

// Verify interface compliance
var _ port.RunStateCache = (*RedisRunStateCache)(nil)
