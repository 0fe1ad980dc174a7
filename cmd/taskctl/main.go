package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BuzzLyutic/task-tracker/internal/cli"
	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/repo/sqlite"
)

func openSQLite(ctx context.Context, path string) (repo.Store, error) {
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return repo.Store{}, err
	}
	return sqlite.NewStore(db), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.Load(), openSQLite)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
