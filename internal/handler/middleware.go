package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

type ctxKey string

const callerKey ctxKey = "caller"

// Authenticate validates the bearer token and stores the current state of the
// token's user in the request context.
func Authenticate(tokens *auth.TokenManager, users *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				respond.Error(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			u, err := users.Lookup(r.Context(), claims.UserID)
			if errors.Is(err, repo.ErrorNotFound) {
				respond.Error(w, r, http.StatusUnauthorized, "account no longer exists")
				return
			}
			if err != nil {
				handleErrors(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), u)))
		})
	}
}

func WithCaller(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, callerKey, u)
}

// CallerFrom returns the authenticated user stored by Authenticate.
func CallerFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(callerKey).(model.User)
	return u, ok
}

func caller(r *http.Request) model.User {
	u, _ := CallerFrom(r.Context())
	return u
}
