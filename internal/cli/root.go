// Package cli implements the usercreds command line.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/polkiloo/usercreds/internal/config"
	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/usecase"
)

// ErrAuthenticationFailed is returned after the command already told the
// user that the credentials were rejected. Callers exit non-zero without
// printing it again.
var ErrAuthenticationFailed = errors.New("authentication failed")

// IsAuthenticationFailure reports whether err only signals rejected
// credentials that were already reported to the user.
func IsAuthenticationFailure(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// AccountService is the application surface the commands drive.
type AccountService interface {
	Register(ctx context.Context, in usecase.RegisterInput) (string, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Profile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, upd usecase.ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, id, current, next string) error
}

// Opener builds an AccountService for cfg. The returned function releases
// whatever the service holds.
type Opener func(ctx context.Context, cfg *config.Config) (AccountService, func(context.Context) error, error)

type session struct {
	cfg           *config.Config
	envErr        error
	open          Opener
	passwordStdin bool
}

// NewRootCmd creates the root command. Environment variables are read
// through lookup and provide flag defaults.
func NewRootCmd(open Opener, lookup func(string) (string, bool)) *cobra.Command {
	s := &session{open: open}
	s.cfg, s.envErr = config.FromEnv(lookup)
	if s.cfg == nil {
		s.cfg = &config.Config{}
	}

	cmd := &cobra.Command{
		Use:           "usercreds",
		Short:         "Manage user records and their credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if s.envErr != nil {
				return s.envErr
			}
			s.cfg.Normalize()
			return nil
		},
	}

	s.cfg.BindFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().BoolVar(&s.passwordStdin, "password-stdin", false, "read passwords from stdin, one per line")

	cmd.AddCommand(
		newRegisterCmd(s),
		newVerifyCmd(s),
		newShowCmd(s),
		newUpdateCmd(s),
		newPasswdCmd(s),
		newHashCmd(s),
		newCheckHashCmd(s),
	)

	return cmd
}

func (s *session) prompter(cmd *cobra.Command) *prompter {
	return newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), s.passwordStdin)
}

// withService opens the store-backed service, runs fn and releases it.
func (s *session) withService(cmd *cobra.Command, fn func(context.Context, AccountService) error) (err error) {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, release, err := s.open(ctx, s.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if release == nil {
			return
		}
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout())
		defer cancel()
		if cerr := release(stopCtx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, svc)
}

func (s *session) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 10 * time.Second
}
