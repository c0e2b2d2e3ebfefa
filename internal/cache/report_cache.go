package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ourschool/ourschool/internal/pkg/logger"
)

// ReportCache caches expensive report payloads in Redis. A nil *ReportCache
// is a valid no-op cache, used when no Redis address is configured.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache connects to Redis and returns a cache handle.
// Returns nil when addr is empty.
func NewReportCache(addr, password string, db int, ttl time.Duration) (*ReportCache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &ReportCache{client: client, ttl: ttl}, nil
}

// StudentReportKey builds the cache key for a per-student report payload.
func StudentReportKey(kind string, studentID int64) string {
	return fmt.Sprintf("report:%s:student:%d", kind, studentID)
}

// AdminReportKey builds the cache key for an admin-wide report payload.
func AdminReportKey(kind string) string {
	return fmt.Sprintf("report:%s:admin", kind)
}

// GetJSON loads a cached payload into dest. Returns false on a miss.
func (c *ReportCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached payload for %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores a payload under key with the configured TTL.
func (c *ReportCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// InvalidateStudent drops all cached reports for a student along with the
// admin-wide payloads they feed into.
func (c *ReportCache) InvalidateStudent(ctx context.Context, studentID int64) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("report:*:student:%d", studentID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Warn().Err(err).Str("pattern", pattern).Msg("Failed to scan report cache keys")
		return
	}
	keys = append(keys, c.adminKeys(ctx)...)
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			logger.Warn().Err(err).Msg("Failed to invalidate report cache")
		}
	}
}

func (c *ReportCache) adminKeys(ctx context.Context) []string {
	keys, err := c.client.Keys(ctx, "report:*:admin").Result()
	if err != nil {
		return nil
	}
	return keys
}

// Close releases the Redis connection.
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
