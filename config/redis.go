package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for the auth cache, or nil when Redis is not
// configured or unreachable. Callers treat a nil client as "cache disabled".
func ConnectRedis(addr string) *redis.Client {
	if addr == "" {
		slog.Warn("REDIS_ADDR not set, auth caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("failed to connect to Redis, auth caching disabled", "error", err)
		return nil
	}

	slog.Info("connected to Redis")
	return rdb
}
