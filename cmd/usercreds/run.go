package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/polkiloo/usercreds/internal/app"
	"github.com/polkiloo/usercreds/internal/cli"
	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/di"
)

// openApp starts the dependency graph for cfg and hands out its facade.
// The returned function stops the graph.
func openApp(ctx context.Context, cfg *config.Config) (cli.AccountService, func(context.Context) error, error) {
	return startApp(ctx, cfg)
}

func startApp(ctx context.Context, cfg *config.Config, opts ...fx.Option) (cli.AccountService, func(context.Context) error, error) {
	var facade *app.AccountFacade

	options := []fx.Option{
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l}
		}),
		fx.Provide(func() context.Context { return ctx }),
		di.Module(cfg, opts...),
		fx.Populate(&facade),
	}

	application := fx.New(options...)
	if err := application.Err(); err != nil {
		return nil, nil, fmt.Errorf("build application: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return nil, nil, fmt.Errorf("start application: %w", err)
	}

	return facade, func(stopCtx context.Context) error {
		if err := application.Stop(stopCtx); err != nil {
			return fmt.Errorf("stop application: %w", err)
		}
		return nil
	}, nil
}
