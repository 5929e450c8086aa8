package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polkiloo/usercreds/internal/usecase"
)

type registerConfig struct {
	username  string
	firstName string
	lastName  string
	age       int
	sign      string
}

func newRegisterCmd(s *session) *cobra.Command {
	cfg := &registerConfig{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user record and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegister(cmd, s, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.username, "username", "u", "", "login name")
	cmd.Flags().StringVar(&cfg.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&cfg.lastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&cfg.age, "age", 0, "age in years")
	cmd.Flags().StringVar(&cfg.sign, "sign", "", "zodiac sign")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runRegister(cmd *cobra.Command, s *session, cfg *registerConfig) error {
	password, err := s.prompter(cmd).newSecret("Password")
	if err != nil {
		return err
	}

	in := usecase.RegisterInput{
		Username:  cfg.username,
		Password:  password,
		FirstName: cfg.firstName,
		LastName:  cfg.lastName,
		Sign:      cfg.sign,
	}
	if cmd.Flags().Changed("age") {
		age := cfg.age
		in.Age = &age
	}

	return s.withService(cmd, func(ctx context.Context, svc AccountService) error {
		id, err := svc.Register(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	})
}
