package app

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/usercreds/internal/config"
)

// Module wires application services and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(NewAccountFacade),
	fx.Invoke(registerLifecycle),
)

type lifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *slog.Logger
	Config    *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Logger.Debug("starting usercreds",
				slog.String("store", p.Config.StoreDriver),
				slog.Bool("cache", p.Config.RedisAddr != ""),
				slog.Int("hash_workers", p.Config.HashWorkers),
			)
			return nil
		},
		OnStop: func(context.Context) error {
			p.Logger.Debug("usercreds stopped")
			return nil
		},
	})
}
