package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polkiloo/usercreds/internal/pkg/auth"
)

func (s *session) credentials() (*auth.CredentialManager, error) {
	if err := s.cfg.ValidateHashing(); err != nil {
		return nil, err
	}
	return auth.NewCredentialManager(auth.NewBcryptHasher(s.cfg.BcryptCost), nil), nil
}

func newHashCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cm, err := s.credentials()
			if err != nil {
				return err
			}
			password, err := s.prompter(cmd).newSecret("Password")
			if err != nil {
				return err
			}
			hash, err := cm.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newCheckHashCmd(s *session) *cobra.Command {
	var hash string

	cmd := &cobra.Command{
		Use:   "check-hash",
		Short: "Check a password against a bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cm, err := s.credentials()
			if err != nil {
				return err
			}
			password, err := s.prompter(cmd).secret("Password")
			if err != nil {
				return err
			}
			ok, err := cm.VerifyPassword(password, hash)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return ErrAuthenticationFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), "match")
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "bcrypt hash to check against")
	_ = cmd.MarkFlagRequired("hash")

	return cmd
}
