package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
)

func newVerifyCmd(s *session) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a password against the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, s, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runVerify(cmd *cobra.Command, s *session, username string) error {
	password, err := s.prompter(cmd).secret("Password")
	if err != nil {
		return err
	}

	return s.withService(cmd, func(ctx context.Context, svc AccountService) error {
		u, err := svc.Authenticate(ctx, username, password)
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			fmt.Fprintln(cmd.OutOrStdout(), "authentication failed")
			return ErrAuthenticationFailed
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password accepted for %s (%s)\n", u.Username, u.ID)
		return nil
	})
}
