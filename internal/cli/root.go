// Package cli is the taskctl command line. It opens a local store, signs the
// caller in with the supplied credentials and forwards each command to the
// service layer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
)

const (
	envUser     = "TASKCTL_USER"
	envPassword = "TASKCTL_PASSWORD"
)

// Opener opens the store at path.
type Opener func(ctx context.Context, path string) (repo.Store, error)

type app struct {
	cfg  config.Config
	open Opener

	username string
	password string
	verbose  bool

	logger     *zap.Logger
	store      repo.Store
	auth       *service.AuthService
	tasks      *service.TaskService
	categories *service.CategoryService
	users      *service.UserService
}

// NewRootCommand builds the taskctl command tree. cfg supplies the defaults
// that the persistent flags override.
func NewRootCommand(cfg config.Config, open Opener) *cobra.Command {
	a := &app{cfg: cfg, open: open}

	root := &cobra.Command{
		Use:   "taskctl",
		Short: "Manage tasks and categories from the command line",
		Long: `taskctl works against a local task database.

Every command except register and password-strength needs credentials, taken
from --user/--password or the TASKCTL_USER/TASKCTL_PASSWORD variables.

EXAMPLES:
  taskctl register alice 's3cret-pass' 's3cret-pass'
  taskctl --user alice --password 's3cret-pass' task add "Write report" --due 2026-11-01 --priority HIGH
  taskctl task list --status TODO --overdue
  taskctl category add Work`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.SQLitePath, "db", cfg.SQLitePath, "path to the task database (overrides SQLITE_PATH)")
	flags.StringVarP(&a.username, "user", "u", "", "username (overrides "+envUser+")")
	flags.StringVarP(&a.password, "password", "p", "", "password (overrides "+envPassword+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log store and service activity to stderr")
	flags.DurationVar(&a.cfg.QueryTimeout, "timeout", cfg.QueryTimeout, "timeout for each command (overrides QUERY_TIMEOUT)")

	root.AddCommand(
		a.registerCommand(),
		a.whoamiCommand(),
		a.passwordStrengthCommand(),
		a.taskCommand(),
		a.categoryCommand(),
		a.userCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.logger = zap.NewNop()
	if a.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = l
	}

	ctx, cancel := a.context(cmd)
	defer cancel()
	st, err := a.open(ctx, a.cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.store = st

	a.auth = service.NewAuthService(st.Users, auth.NewPasswordHasher(a.cfg.BcryptCost), a.logger)
	a.tasks = service.NewTaskService(st.Tasks, st.Categories, st.Users, a.logger)
	a.categories = service.NewCategoryService(st.Categories, a.logger)
	a.users = service.NewUserService(st.Users, st.Tasks, a.logger)
	return nil
}

func (a *app) teardown() {
	if a.store.Close != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, a.cfg.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

var errNoCredentials = errors.New("credentials required: use --user/--password or " + envUser + "/" + envPassword)

// login authenticates the caller from the flags, falling back to the environment.
func (a *app) login(ctx context.Context) (model.User, error) {
	username, password := a.username, a.password
	if username == "" {
		username = os.Getenv(envUser)
	}
	if password == "" {
		password = os.Getenv(envPassword)
	}
	if username == "" || password == "" {
		return model.User{}, errNoCredentials
	}
	return a.auth.Authenticate(ctx, username, password)
}

// run wraps a command body that needs a signed-in caller.
func (a *app) run(fn func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := a.context(cmd)
		defer cancel()

		caller, err := a.login(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, caller, args)
	}
}

func (a *app) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register USERNAME PASSWORD CONFIRM",
		Short: "Create an account; the first account becomes ADMIN",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			u, err := a.auth.Register(ctx, service.RegisterInput{
				Username:        args[0],
				Password:        args[1],
				ConfirmPassword: args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d, role %s)\n", u.Username, u.ID, u.Role)
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, caller model.User, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, role %s)\n", caller.Username, caller.ID, caller.Role)
			return nil
		}),
	}
}

func (a *app) passwordStrengthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "password-strength PASSWORD",
		Short: "Rate a candidate password",
		Args:  cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), auth.PasswordStrength(args[0]))
			return nil
		},
	}
}
