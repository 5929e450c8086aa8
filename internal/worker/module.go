package worker

import (
	"context"
	"log/slog"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/pkg/auth"
	"go.uber.org/fx"
)

// Module runs the hashing pool for the lifetime of the application and
// exposes it as the PasswordHasher used by credential management.
var Module = fx.Options(
	fx.Provide(newHashPool),
	fx.Provide(func(p *HashPool) auth.PasswordHasher { return p }),
)

type poolParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Hasher    *auth.BcryptHasher
	Config    *config.Config
	Logger    *slog.Logger
}

func newHashPool(p poolParams) *HashPool {
	pool := NewHashPool(p.Hasher, p.Config.HashWorkers, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			pool.Start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			pool.Stop()
			return nil
		},
	})
	return pool
}
