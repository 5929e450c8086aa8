package auth

import (
	"github.com/polkiloo/usercreds/internal/config"
	"go.uber.org/fx"
)

// Module provides credential primitives via fx. The PasswordHasher consumed
// by CredentialManager is supplied by the hashing worker pool.
var Module = fx.Options(
	fx.Provide(newBcryptHasher),
	fx.Provide(newCredentialManager),
)

func newBcryptHasher(cfg *config.Config) *BcryptHasher {
	return NewBcryptHasher(cfg.BcryptCost)
}

type managerParams struct {
	fx.In

	Hasher PasswordHasher
	Clock  Clock `optional:"true"`
}

func newCredentialManager(p managerParams) *CredentialManager {
	return NewCredentialManager(p.Hasher, p.Clock)
}
