package data

import (
	"github.com/go-redis/redis/v8"
	"github.com/ibdaa1/qooqz/internal/config"
)

// NewRedisClient returns a client for the configured address, or nil when caching is not configured.
func NewRedisClient(c config.Config) *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr: c.RedisAddr,
		DB:   c.RedisDB,
	})
}
