package app

import (
	"context"

	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/usecase"
)

// AccountFacade is the entry point the command line talks to.
type AccountFacade struct {
	accounts *usecase.AccountUseCase
}

// NewAccountFacade constructs AccountFacade.
func NewAccountFacade(accounts *usecase.AccountUseCase) *AccountFacade {
	return &AccountFacade{accounts: accounts}
}

// Register creates an account and returns its id.
func (f *AccountFacade) Register(ctx context.Context, in usecase.RegisterInput) (string, error) {
	u, err := f.accounts.Register(ctx, in)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Authenticate checks username and password.
func (f *AccountFacade) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	return f.accounts.Authenticate(ctx, username, password)
}

// Profile returns the profile of id.
func (f *AccountFacade) Profile(ctx context.Context, id string) (*model.User, error) {
	return f.accounts.Profile(ctx, id)
}

// UpdateProfile applies profile changes to id.
func (f *AccountFacade) UpdateProfile(ctx context.Context, id string, upd usecase.ProfileUpdate) (*model.User, error) {
	return f.accounts.UpdateProfile(ctx, id, upd)
}

// ChangePassword replaces the password of id.
func (f *AccountFacade) ChangePassword(ctx context.Context, id, current, next string) error {
	return f.accounts.ChangePassword(ctx, id, current, next)
}
