package sink

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

const redisKeyPrefix = "addon_totals:"

// RedisSink pushes totals onto a per-addon list.
type RedisSink struct {
	opts *redis.Options
}

func NewRedisSink(redisURL string) (*RedisSink, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisSink{opts: opts}, nil
}

func (s *RedisSink) Name() string {
	return "redis"
}

func RedisKey(addon string) string {
	return redisKeyPrefix + addon
}

func (s *RedisSink) Write(ctx context.Context, total models.CompletedTotal) error {
	payload, err := sonic.Marshal(total)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	opts := *s.opts
	client := redis.NewClient(&opts)
	defer client.Close()

	if err := client.RPush(ctx, RedisKey(total.AddonName), payload).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}
