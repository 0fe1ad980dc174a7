// Package store opens the repository backend selected by configuration.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/repo/sqlite"
)

func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := repo.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return repo.Store{}, err
		}
		logger.Info("connected to postgres")
		return repo.NewPostgresStore(pool), nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return repo.Store{}, err
		}
		logger.Debug("opened sqlite database", zap.String("path", cfg.SQLitePath))
		return sqlite.NewStore(db), nil
	default:
		return repo.Store{}, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
