package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/domain/repository"
	pkgAuth "github.com/polkiloo/usercreds/internal/pkg/auth"
)

// RegisterInput carries the data for a new account.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Age       *int
	Sign      string
}

// ProfileUpdate lists profile changes. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Sign      *string
	Age       *int
	ClearAge  bool
}

// AccountUseCase handles the user record lifecycle.
type AccountUseCase struct {
	users       repository.UserRepository
	credentials *pkgAuth.CredentialManager
	minPassword int
	logger      *slog.Logger
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(users repository.UserRepository, credentials *pkgAuth.CredentialManager, minPasswordLength int, logger *slog.Logger) *AccountUseCase {
	if minPasswordLength <= 0 {
		minPasswordLength = 1
	}
	return &AccountUseCase{
		users:       users,
		credentials: credentials,
		minPassword: minPasswordLength,
		logger:      logger,
	}
}

// Register creates a new user and returns it without the password hash.
func (a *AccountUseCase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username, err := NormalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password, a.minPassword); err != nil {
		return nil, err
	}
	if err := ValidateAge(in.Age); err != nil {
		return nil, err
	}

	u := &model.User{
		Username:  username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Age:       in.Age,
		Sign:      strings.TrimSpace(in.Sign),
	}
	u.SetPassword(in.Password)

	if err := a.credentials.PrepareForPersist(u, u.PasswordModified()); err != nil {
		return nil, err
	}
	if _, err := a.users.Save(ctx, u); err != nil {
		return nil, err
	}

	a.logger.Info("user registered", slog.String("user_id", u.ID))
	return withoutHash(u), nil
}

// Authenticate checks username and password. Unknown users, wrong passwords
// and records with an unusable hash all yield ErrInvalidCredentials.
func (a *AccountUseCase) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	u, err := a.users.FindByField(ctx, model.FieldUsername, username, model.FieldPassword)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := a.verify(u, password); err != nil {
		return nil, err
	}

	if a.credentials.NeedsRehash(u.PasswordHash) {
		a.upgradeHash(ctx, u, password)
	}
	return withoutHash(u), nil
}

// Profile returns the stored record without its hash.
func (a *AccountUseCase) Profile(ctx context.Context, id string) (*model.User, error) {
	return a.users.LoadByID(ctx, id)
}

// UpdateProfile applies profile changes. The password is never touched.
func (a *AccountUseCase) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*model.User, error) {
	if err := ValidateAge(upd.Age); err != nil {
		return nil, err
	}

	u, err := a.users.LoadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		u.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		u.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Sign != nil {
		u.Sign = strings.TrimSpace(*upd.Sign)
	}
	switch {
	case upd.ClearAge:
		u.Age = nil
	case upd.Age != nil:
		age := *upd.Age
		u.Age = &age
	}

	if err := a.credentials.PrepareForPersist(u, false); err != nil {
		return nil, err
	}
	if _, err := a.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (a *AccountUseCase) ChangePassword(ctx context.Context, id, current, next string) error {
	u, err := a.users.LoadByID(ctx, id, model.FieldPassword)
	if err != nil {
		return err
	}
	if err := a.verify(u, current); err != nil {
		return err
	}
	if err := ValidatePassword(next, a.minPassword); err != nil {
		return err
	}

	u.SetPassword(next)
	if err := a.credentials.PrepareForPersist(u, u.PasswordModified()); err != nil {
		return err
	}
	if _, err := a.users.Save(ctx, u); err != nil {
		return err
	}

	a.logger.Info("password changed", slog.String("user_id", u.ID))
	return nil
}

func (a *AccountUseCase) verify(u *model.User, password string) error {
	ok, err := a.credentials.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentialState) {
			a.logger.Warn("stored credential unusable", slog.String("user_id", u.ID), slog.String("error", err.Error()))
			return fmt.Errorf("%w: %w", domainErrors.ErrInvalidCredentials, err)
		}
		return err
	}
	if !ok {
		return domainErrors.ErrInvalidCredentials
	}
	return nil
}

func (a *AccountUseCase) upgradeHash(ctx context.Context, u *model.User, password string) {
	u.SetPassword(password)
	if err := a.credentials.PrepareForPersist(u, true); err != nil {
		a.logger.Warn("password rehash failed", slog.String("user_id", u.ID), slog.String("error", err.Error()))
		return
	}
	if _, err := a.users.Save(ctx, u); err != nil {
		a.logger.Warn("password rehash not saved", slog.String("user_id", u.ID), slog.String("error", err.Error()))
		return
	}
	a.logger.Info("password hash upgraded", slog.String("user_id", u.ID))
}

func withoutHash(u *model.User) *model.User {
	c := u.Record()
	c.PasswordHash = ""
	return c
}
