package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Source lists titles the downstream pipeline has already published.
// The topic-recurrence filter treats failures as "nothing published"
// rather than blocking selection.
type Source interface {
	RecentTitles(ctx context.Context, since time.Time) ([]string, error)
}

// RedisConfig configures the Redis-backed publish history.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// Key is the sorted set holding published titles scored by publish
	// epoch seconds; the downstream publisher maintains it.
	Key string
}

// Redis reads the publish history from a sorted set.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a publish-history source for the given Redis instance.
func NewRedis(cfg RedisConfig) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		key: cfg.Key,
	}
}

func (r *Redis) RecentTitles(ctx context.Context, since time.Time) ([]string, error) {
	titles, err := r.client.ZRangeByScore(ctx, r.key, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("publish history query failed: %w", err)
	}
	return titles, nil
}

// Close releases the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
