package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/polkiloo/usercreds/internal/domain/model"
)

func newShowCmd(s *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withService(cmd, func(ctx context.Context, svc AccountService) error {
				u, err := svc.Profile(ctx, args[0])
				if err != nil {
					return err
				}
				return printUser(cmd.OutOrStdout(), u, asJSON)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")

	return cmd
}

// printUser writes the profile. The password hash never leaves the store
// layer through this command.
func printUser(w io.Writer, u *model.User, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(u); err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		return nil
	}

	age := "-"
	if u.Age != nil {
		age = strconv.Itoa(*u.Age)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", u.ID)
	fmt.Fprintf(tw, "USERNAME\t%s\n", u.Username)
	fmt.Fprintf(tw, "FIRST NAME\t%s\n", u.FirstName)
	fmt.Fprintf(tw, "LAST NAME\t%s\n", u.LastName)
	fmt.Fprintf(tw, "AGE\t%s\n", age)
	fmt.Fprintf(tw, "SIGN\t%s\n", u.Sign)
	fmt.Fprintf(tw, "CREATED\t%s\n", formatTime(u.CreatedAt))
	fmt.Fprintf(tw, "UPDATED\t%s\n", formatTime(u.UpdatedAt))
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
