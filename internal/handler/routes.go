package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

// Services groups what the router needs.
type Services struct {
	Auth       *service.AuthService
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Users      *service.UserService
	Tokens     *auth.TokenManager
}

// NewRouter mounts the public auth endpoints and the bearer-protected API.
// Every request context is cancelled after timeout.
func NewRouter(s Services, timeout time.Duration, logger *zap.Logger) http.Handler {
	authH := NewAuthHandler(s.Auth, s.Tokens, logger)
	taskH := NewTaskHandler(s.Tasks, logger)
	categoryH := NewCategoryHandler(s.Categories, logger)
	userH := NewUserHandler(s.Users, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/password-strength", authH.PasswordStrength)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.Tokens, s.Auth, logger))

			r.Get("/me", authH.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskH.List)
				r.Post("/", taskH.Create)
				r.Get("/{id}", taskH.Get)
				r.Put("/{id}", taskH.Update)
				r.Delete("/{id}", taskH.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryH.List)
				r.Post("/", categoryH.Create)
				r.Put("/{id}", categoryH.Rename)
				r.Delete("/{id}", categoryH.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userH.List)
				r.Put("/{id}/role", userH.ChangeRole)
				r.Delete("/{id}", userH.Delete)
			})
		})
	})

	return r
}
