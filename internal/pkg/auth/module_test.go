package auth

import (
	"testing"
	"time"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasherFromConfig(t *testing.T) {
	hasher := newBcryptHasher(&config.Config{BcryptCost: 12})
	assert.Equal(t, 12, hasher.Cost())

	hasher = newBcryptHasher(&config.Config{})
	assert.Equal(t, bcrypt.DefaultCost, hasher.Cost())
}

func TestModuleProvidesCredentialManager(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var (
		bcryptHasher *BcryptHasher
		manager      *CredentialManager
	)
	app := fxtest.New(t,
		fx.Supply(&config.Config{BcryptCost: bcrypt.MinCost}),
		fx.Provide(func(h *BcryptHasher) PasswordHasher { return h }),
		fx.Supply(Clock(func() time.Time { return fixed })),
		Module,
		fx.Populate(&bcryptHasher, &manager),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, manager)
	assert.Equal(t, bcrypt.MinCost, bcryptHasher.Cost())
	assert.Same(t, bcryptHasher, manager.hasher)
	assert.Equal(t, fixed, manager.now())
}
