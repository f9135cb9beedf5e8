// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"collabhub/config"

	"github.com/go-redis/redis/v8"
)

// NewSessionCache connects the Redis client that holds registration sessions.
func NewSessionCache(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (sessions): %w", err)
	}
	return client, nil
}
