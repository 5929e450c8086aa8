package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
)

func newPasswdCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd ID",
		Short: "Change the password of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.prompter(cmd)
			current, err := p.secret("Current password")
			if err != nil {
				return err
			}
			next, err := p.newSecret("New password")
			if err != nil {
				return err
			}

			return s.withService(cmd, func(ctx context.Context, svc AccountService) error {
				err := svc.ChangePassword(ctx, args[0], current, next)
				if errors.Is(err, domainErrors.ErrInvalidCredentials) {
					fmt.Fprintln(cmd.OutOrStdout(), "authentication failed")
					return ErrAuthenticationFailed
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "password changed")
				return nil
			})
		},
	}
}
