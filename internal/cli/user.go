package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/service"
)

func (a *app) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts (ADMIN only)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their task counts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			dir, err := a.users.List(ctx, caller)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tTASKS\tCREATED")
			for _, u := range dir.Users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					u.ID, u.Username, u.Role, u.TaskCount, u.CreatedAt.Format(dateLayout))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d accounts: %d admins, %d users\n", dir.Total, dir.Admins, dir.Plain)
			return nil
		}),
	}

	role := &cobra.Command{
		Use:   "role ID ROLE",
		Short: "Change an account's role to USER or ADMIN",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := model.ParseRole(args[1])
			if err != nil {
				return service.ErrInvalidRole
			}
			u, err := a.users.ChangeRole(ctx, caller, id, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, u.Role)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an account and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.users.Delete(ctx, caller, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", id)
			return nil
		}),
	}

	cmd.AddCommand(list, role, del)
	return cmd
}
