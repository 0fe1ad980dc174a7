package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

func (a *app) categoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "List categories; ADMINs can also add, rename and delete them",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories by name",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			categories, err := a.categories.Search(ctx, query)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		}),
	}
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name substring")

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			c, err := a.categories.Create(ctx, caller, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created category %d %q\n", c.ID, c.Name)
			return nil
		}),
	}

	rename := &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.categories.Rename(ctx, caller, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed category %d to %q\n", c.ID, c.Name)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category; its tasks become " + model.UncategorizedLabel,
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.categories.Delete(ctx, caller, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted category %d\n", id)
			return nil
		}),
	}

	cmd.AddCommand(list, add, rename, del)
	return cmd
}
