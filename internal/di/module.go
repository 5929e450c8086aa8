package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/usercreds/internal/app"
	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/logger"
	"github.com/polkiloo/usercreds/internal/pkg/auth"
	"github.com/polkiloo/usercreds/internal/storage"
	"github.com/polkiloo/usercreds/internal/usecase"
	"github.com/polkiloo/usercreds/internal/worker"
)

// Module composes the application graph for cfg. Extra options are appended
// last, so fx.Replace and fx.Decorate in opts win.
func Module(cfg *config.Config, opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module(cfg),
		logger.Module,
		auth.Module,
		worker.Module,
		storage.Module(cfg),
		usecase.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
