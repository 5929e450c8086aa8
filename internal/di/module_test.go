package di

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/usercreds/internal/app"
	"github.com/polkiloo/usercreds/internal/config"
	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/repository"
	"github.com/polkiloo/usercreds/internal/test"
	"github.com/polkiloo/usercreds/internal/usecase"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver:       config.DriverMemory,
		BcryptCost:        bcrypt.MinCost,
		HashWorkers:       2,
		MinPasswordLength: 8,
		LogLevel:          "error",
	}
}

func TestModuleWiresMemoryGraph(t *testing.T) {
	ctx := context.Background()

	var facade *app.AccountFacade
	fxApp := fxtest.New(t,
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		Module(memoryConfig()),
		fx.Populate(&facade),
	)
	fxApp.RequireStart()
	defer fxApp.RequireStop()

	require.NotNil(t, facade)
	id, err := facade.Register(ctx, usecase.RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	u, err := facade.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = facade.Authenticate(ctx, "alice", "wrongpass")
	require.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := memoryConfig()
	userRepo := test.NewUserRepositoryStub()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var facade *app.AccountFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(cfg,
			fx.Replace(logger),
			fx.Decorate(func(repository.UserRepository) repository.UserRepository { return userRepo }),
		),
		fx.Populate(&facade),
	)
	require.NoError(t, fxApp.Err())
	require.NoError(t, fxApp.Start(context.Background()))
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })

	_, err := facade.Register(context.Background(), usecase.RegisterInput{Username: "bob", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, 1, userRepo.Saves)
}
