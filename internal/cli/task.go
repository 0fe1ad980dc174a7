package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/service"
)

const dateLayout = "2006-01-02"

func (a *app) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "List, add, update and delete tasks",
	}
	cmd.AddCommand(a.taskListCommand(), a.taskAddCommand(), a.taskUpdateCommand(), a.taskDeleteCommand())
	return cmd
}

func (a *app) taskListCommand() *cobra.Command {
	var (
		search, status, priority, category, from, to string
		overdue                                      bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the visible tasks matching every given filter",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			f := model.TaskFilter{Search: search, OverdueOnly: overdue}
			if status != "" {
				st, err := model.ParseStatus(status)
				if err != nil {
					return service.ErrInvalidStatus
				}
				f.Status = &st
			}
			if priority != "" {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return service.ErrInvalidPriority
				}
				f.Priority = &p
			}
			if cmd.Flags().Changed("category") {
				f.Category = &category
			}
			var err error
			if f.DueFrom, err = parseDateFlag("from", from); err != nil {
				return err
			}
			if f.DueTo, err = parseDateFlag("to", to); err != nil {
				return err
			}

			dash, err := a.tasks.Dashboard(ctx, caller, f)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), dash.Tasks)
			fmt.Fprintf(cmd.OutOrStdout(), "\nshown: %s\nall:   %s\n", formatSummary(dash.Filtered), formatSummary(dash.Overall))
			return nil
		}),
	}
	fl := cmd.Flags()
	fl.StringVarP(&search, "search", "s", "", "case-insensitive text in title or description")
	fl.StringVar(&status, "status", "", "TODO, IN_PROGRESS, DONE or CANCELLED")
	fl.StringVar(&priority, "priority", "", "LOW, MEDIUM or HIGH")
	fl.StringVar(&category, "category", "", "category name, or "+model.UncategorizedLabel)
	fl.BoolVar(&overdue, "overdue", false, "only tasks due before today")
	fl.StringVar(&from, "from", "", "earliest due date, YYYY-MM-DD")
	fl.StringVar(&to, "to", "", "latest due date, YYYY-MM-DD")
	return cmd
}

// taskFlags are the editable task fields shared by add and update.
type taskFlags struct {
	description string
	due         string
	status      string
	priority    string
	categoryID  int64
	assign      int64
}

func (tf *taskFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&tf.description, "description", "d", "", "task description")
	fl.StringVar(&tf.due, "due", "", "due date, YYYY-MM-DD; empty clears it")
	fl.StringVar(&tf.status, "status", "", "TODO, IN_PROGRESS, DONE or CANCELLED")
	fl.StringVar(&tf.priority, "priority", "", "LOW, MEDIUM or HIGH")
	fl.Int64Var(&tf.categoryID, "category-id", 0, "category id; 0 leaves the task uncategorized")
	fl.Int64Var(&tf.assign, "assign", 0, "owner user id (ADMIN only)")
}

// apply copies the flags that were set on the command line into t.
func (tf *taskFlags) apply(cmd *cobra.Command, t *model.Task) error {
	fl := cmd.Flags()
	if fl.Changed("description") {
		t.Description = tf.description
	}
	if fl.Changed("due") {
		d, err := parseDateFlag("due", tf.due)
		if err != nil {
			return err
		}
		t.DueDate = d
	}
	if fl.Changed("status") {
		t.Status = model.Status(tf.status)
		if st, err := model.ParseStatus(tf.status); err == nil {
			t.Status = st
		}
	}
	if fl.Changed("priority") {
		t.Priority = model.Priority(tf.priority)
		if p, err := model.ParsePriority(tf.priority); err == nil {
			t.Priority = p
		}
	}
	if fl.Changed("category-id") {
		t.CategoryID = nil
		if tf.categoryID != 0 {
			id := tf.categoryID
			t.CategoryID = &id
		}
	}
	if fl.Changed("assign") {
		t.UserID = tf.assign
	}
	return nil
}

func (a *app) taskAddCommand() *cobra.Command {
	var tf taskFlags
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			t := model.Task{Title: args[0]}
			if err := tf.apply(cmd, &t); err != nil {
				return err
			}
			created, err := a.tasks.Create(ctx, caller, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %d\n", created.ID)
			return nil
		}),
	}
	tf.register(cmd)
	return cmd
}

func (a *app) taskUpdateCommand() *cobra.Command {
	var (
		tf    taskFlags
		title string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.tasks.Get(ctx, caller, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				t.Title = title
			}
			if err := tf.apply(cmd, &t); err != nil {
				return err
			}
			updated, err := a.tasks.Update(ctx, caller, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated task %d\n", updated.ID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	tf.register(cmd)
	return cmd
}

func (a *app) taskDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.tasks.Delete(ctx, caller, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		}),
	}
}

func printTasks(out io.Writer, tasks []model.Task) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDUE\tSTATUS\tPRIORITY\tCATEGORY\tOWNER")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format(dateLayout)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			t.ID, t.Title, due, t.Status, t.Priority, t.CategoryLabel(), t.UserID)
	}
	w.Flush()
}

func formatSummary(s model.Summary) string {
	return fmt.Sprintf("%d total, %d todo, %d in progress, %d done", s.Total, s.Todo, s.InProgress, s.Done)
}

func parseDateFlag(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, &service.ValidationError{Field: name, Message: name + " must be YYYY-MM-DD"}
	}
	return &d, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
