package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"hireassist/models"
)

const (
	eventBatchApplied  = "EVENT_BATCH_APPLIED"
	eventStatsComputed = "EVENT_STATS_COMPUTED"
)

// NoopNotifier is the default collaborator when no event bus is configured.
// Every method is a no-op; callers never need to nil-check.
type NoopNotifier struct{}

func (NoopNotifier) BatchApplied(context.Context, string, models.Source, models.BatchSummary) {}
func (NoopNotifier) StatsComputed(context.Context, time.Time, int)                            {}

// RedisNotifier publishes ingest events for downstream consumers. Publish
// failures are logged, never surfaced; eventing is best effort.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier connects and verifies the Redis client.
func NewRedisNotifier(ctx context.Context, redisURL string) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisNotifier{rdb: rdb}, nil
}

func (n *RedisNotifier) BatchApplied(ctx context.Context, companyName string, source models.Source, summary models.BatchSummary) {
	event, _ := json.Marshal(map[string]any{
		"type":        eventBatchApplied,
		"company":     companyName,
		"source":      string(source),
		"new":         summary.New,
		"updated":     summary.Updated,
		"deactivated": summary.Deactivated,
		"rejected":    summary.Rejected,
	})
	if err := n.rdb.Publish(ctx, eventBatchApplied, event).Err(); err != nil {
		log.Printf("Warning: publish %s failed: %v", eventBatchApplied, err)
	}
}

func (n *RedisNotifier) StatsComputed(ctx context.Context, day time.Time, rows int) {
	event, _ := json.Marshal(map[string]any{
		"type": eventStatsComputed,
		"date": day.Format("2006-01-02"),
		"rows": rows,
	})
	if err := n.rdb.Publish(ctx, eventStatsComputed, event).Err(); err != nil {
		log.Printf("Warning: publish %s failed: %v", eventStatsComputed, err)
	}
}

func (n *RedisNotifier) Close() error { return n.rdb.Close() }
