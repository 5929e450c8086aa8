package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, logger *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("redis connection failed", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Debug("redis connection successful", slog.String("address", addr))
	return rdb, nil
}
