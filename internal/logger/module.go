package logger

import (
	"log/slog"
	"os"

	"github.com/polkiloo/usercreds/internal/config"
	"go.uber.org/fx"
)

// Module wires slog logger for dependency injection. Logs go to stderr so
// command output on stdout stays clean.
var Module = fx.Provide(newFromConfig)

func newFromConfig(cfg *config.Config) *slog.Logger {
	return New(os.Stderr, cfg.LogLevel)
}
