package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/pkg/auth"
)

func TestModuleProvidesPooledHasher(t *testing.T) {
	var (
		hasher auth.PasswordHasher
		pool   *HashPool
	)
	app := fxtest.New(t,
		fx.Supply(&config.Config{BcryptCost: bcrypt.MinCost, HashWorkers: 3}),
		fx.Supply(discardLogger()),
		auth.Module,
		Module,
		fx.Populate(&hasher, &pool),
	)
	app.RequireStart()

	require.NotNil(t, pool)
	assert.Same(t, pool, hasher)
	assert.Equal(t, 3, pool.workers)

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, "secret123"))

	app.RequireStop()
}
