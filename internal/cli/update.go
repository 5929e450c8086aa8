package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/polkiloo/usercreds/internal/usecase"
)

type updateConfig struct {
	firstName string
	lastName  string
	age       int
	sign      string
	clearAge  bool
}

func newUpdateCmd(s *session) *cobra.Command {
	cfg := &updateConfig{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change profile fields of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, s, args[0], cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&cfg.lastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&cfg.age, "age", 0, "age in years")
	cmd.Flags().StringVar(&cfg.sign, "sign", "", "zodiac sign")
	cmd.Flags().BoolVar(&cfg.clearAge, "clear-age", false, "remove the stored age")
	cmd.MarkFlagsMutuallyExclusive("age", "clear-age")

	return cmd
}

// profileUpdate keeps only the flags that were given on the command line.
func profileUpdate(cmd *cobra.Command, cfg *updateConfig) (usecase.ProfileUpdate, error) {
	var upd usecase.ProfileUpdate
	changed := false

	if cmd.Flags().Changed("first-name") {
		upd.FirstName = &cfg.firstName
		changed = true
	}
	if cmd.Flags().Changed("last-name") {
		upd.LastName = &cfg.lastName
		changed = true
	}
	if cmd.Flags().Changed("sign") {
		upd.Sign = &cfg.sign
		changed = true
	}
	if cmd.Flags().Changed("age") {
		upd.Age = &cfg.age
		changed = true
	}
	if cfg.clearAge {
		upd.ClearAge = true
		changed = true
	}

	if !changed {
		return upd, errors.New("nothing to update")
	}
	return upd, nil
}

func runUpdate(cmd *cobra.Command, s *session, id string, cfg *updateConfig) error {
	upd, err := profileUpdate(cmd, cfg)
	if err != nil {
		return err
	}

	return s.withService(cmd, func(ctx context.Context, svc AccountService) error {
		u, err := svc.UpdateProfile(ctx, id, upd)
		if err != nil {
			return err
		}
		return printUser(cmd.OutOrStdout(), u, false)
	})
}
