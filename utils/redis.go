package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arpitmofficial/fest-management-system/config"
)

var redisClient *redis.Client

// InitRedis connects the shared client. Callers treat cache misses and a
// missing client the same way, so boot continues even when Redis is down.
func InitRedis(cfg *config.Config) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return redisClient.Ping(ctx).Err()
}

// CacheSet stores a value with a TTL.
func CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return redis.ErrClosed
	}
	return redisClient.Set(ctx, key, value, ttl).Err()
}

// CacheGet returns the cached value, or an error on miss.
func CacheGet(ctx context.Context, key string) (string, error) {
	if redisClient == nil {
		return "", redis.ErrClosed
	}
	return redisClient.Get(ctx, key).Result()
}

// CacheDelete removes a key, ignoring misses.
func CacheDelete(ctx context.Context, key string) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Del(ctx, key).Err()
}
