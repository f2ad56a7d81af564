// internal/journal/redis.go
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the journal pushes entries onto.
var DefaultQueueName = "gofish_events"

// RedisRecorder pushes journal entries onto a Redis list so an external
// consumer can follow the table's roster history.
type RedisRecorder struct {
	rdb   *redis.Client
	queue string
}

// ConnectRedis builds a RedisRecorder from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
//   - JOURNAL_QUEUE_NAME (optional, defaults to DefaultQueueName)
func ConnectRedis() (*RedisRecorder, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisRecorder{
		rdb:   rdb,
		queue: getEnv("JOURNAL_QUEUE_NAME", DefaultQueueName),
	}, nil
}

// NewRedisRecorder wraps an existing client; used by tests.
func NewRedisRecorder(rdb *redis.Client, queue string) *RedisRecorder {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisRecorder{rdb: rdb, queue: queue}
}

// Record serializes the entry to JSON and RPushes it onto the queue.
func (r *RedisRecorder) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	if err := r.rdb.RPush(ctx, r.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", r.queue, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
