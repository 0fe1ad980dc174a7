package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/handler"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	st, err := store.Open(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	defer st.Close()

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	router := handler.NewRouter(handler.Services{
		Auth:       service.NewAuthService(st.Users, hasher, logger),
		Tasks:      service.NewTaskService(st.Tasks, st.Categories, st.Users, logger),
		Categories: service.NewCategoryService(st.Categories, logger),
		Users:      service.NewUserService(st.Users, st.Tasks, logger),
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, "task-tracker"),
	}, cfg.QueryTimeout, logger)

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr), zap.String("driver", cfg.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
