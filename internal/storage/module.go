// Package storage selects the user repository adapter for the configured driver.
package storage

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/domain/repository"
	"github.com/polkiloo/usercreds/internal/storage/cache"
	"github.com/polkiloo/usercreds/internal/storage/memory"
	"github.com/polkiloo/usercreds/internal/storage/mongodb"
	"github.com/polkiloo/usercreds/internal/storage/postgres"
)

// Module wires the repository adapter named by cfg.StoreDriver and, when a
// Redis address is configured, the caching decorator in front of it.
func Module(cfg *config.Config) fx.Option {
	var driver fx.Option
	switch cfg.StoreDriver {
	case config.DriverMongo:
		driver = mongodb.Module
	case config.DriverMemory:
		driver = memory.Module
	default:
		driver = postgres.Module
	}

	if cfg.RedisAddr == "" {
		return driver
	}
	return fx.Options(
		driver,
		fx.Provide(newRedisClient),
		fx.Decorate(decorateWithCache),
	)
}

type redisParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Ctx       context.Context
	Config    *config.Config
	Logger    *slog.Logger
}

func newRedisClient(p redisParams) (*redis.Client, error) {
	rdb, err := cache.NewClient(p.Ctx, p.Config.RedisAddr, p.Config.RedisPassword, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error { return rdb.Close() },
	})
	return rdb, nil
}

func decorateWithCache(repo repository.UserRepository, rdb *redis.Client, cfg *config.Config) repository.UserRepository {
	return cache.NewCachingUserRepository(rdb, cfg.CacheTTL, repo, "")
}
