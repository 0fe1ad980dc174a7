package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	tokens  *auth.TokenManager
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		tokens:  tokens,
		logger:  logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresIn int64      `json:"expires_in"`
	User      model.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.tokens.TTL(),
		User:      u,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, caller(r))
}

// PasswordStrength rates a candidate password without storing it.
func (h *AuthHandler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]string{
		"strength": auth.PasswordStrength(req.Password).String(),
	})
}
