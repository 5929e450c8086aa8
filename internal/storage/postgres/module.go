package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/domain/repository"
)

// Module wires PostgreSQL storage and the user repository adapter.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(func(s *Storage) repository.UserRepository { return s.Users() }),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStart: storage.HealthCheck,
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
