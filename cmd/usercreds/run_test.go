package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polkiloo/usercreds/internal/config"
	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/usecase"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver:       config.DriverMemory,
		BcryptCost:        4,
		HashWorkers:       2,
		MinPasswordLength: 8,
		LogLevel:          "error",
		ShutdownTimeout:   5 * time.Second,
	}
}

func TestStartAppMemoryStore(t *testing.T) {
	ctx := context.Background()

	svc, release, err := startApp(ctx, memoryConfig())
	require.NoError(t, err)

	id, err := svc.Register(ctx, usecase.RegisterInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	u, err := svc.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Empty(t, u.PasswordHash)

	_, err = svc.Authenticate(ctx, "alice", "secret124")
	require.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)

	require.NoError(t, release(ctx))
}

func TestStartAppReportsGraphErrors(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "postgres"
	cfg.DatabaseURI = "postgres://127.0.0.1:1/none?connect_timeout=1"
	cfg.ShutdownTimeout = 2 * time.Second

	_, _, err := startApp(context.Background(), cfg)
	require.Error(t, err)
}
