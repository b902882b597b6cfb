package redis

import (
	"context"
	"fmt"
	"time"

	"smartCatalog/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings; the conversation store and the token
// revocation list share this client.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", client.Options().Addr, err)
	}

	return client, nil
}

// CloseRedisClient closes the Redis connection
func CloseRedisClient(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}

	return nil
}
