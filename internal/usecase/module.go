package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/domain/repository"
	pkgAuth "github.com/polkiloo/usercreds/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(newAccountUseCase)

type accountParams struct {
	fx.In

	Users       repository.UserRepository
	Credentials *pkgAuth.CredentialManager
	Config      *config.Config
	Logger      *slog.Logger
}

func newAccountUseCase(p accountParams) *AccountUseCase {
	return NewAccountUseCase(p.Users, p.Credentials, p.Config.MinPasswordLength, p.Logger)
}
