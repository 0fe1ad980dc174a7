package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// RegisterInput is the sign-up form. Role is what the client asked for;
// Register never grants it, so promotion goes through UserService.ChangeRole.
type RegisterInput struct {
	Username        string     `json:"username"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirm_password"`
	Role            model.Role `json:"role,omitempty"`
}

type AuthService struct {
	users  repo.UserRepository
	hasher *auth.PasswordHasher
	logger *zap.Logger
}

func NewAuthService(users repo.UserRepository, hasher *auth.PasswordHasher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Authenticate returns the user whose username matches exactly and whose
// stored hash accepts password. Any mismatch yields ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrorNotFound) {
		s.hasher.VerifyDummy(password)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register validates the input, hashes the password and stores the account.
// The first account ever created is an ADMIN and every later one is a USER.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegistration(in); err != nil {
		return model.User{}, err
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return model.User{}, err
	}
	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}
	if in.Role != "" && in.Role != role {
		s.logger.Warn("requested role ignored at registration",
			zap.String("username", in.Username),
			zap.String("requested", string(in.Role)),
			zap.String("granted", string(role)),
		)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	u, err := s.users.Create(ctx, model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, repo.ErrorConflict) {
		return model.User{}, ErrUsernameTaken
	}
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

// Lookup reloads a previously authenticated user so that role changes and
// deletions take effect on the next request.
func (s *AuthService) Lookup(ctx context.Context, id int64) (model.User, error) {
	return s.users.Get(ctx, id)
}

func validateRegistration(in RegisterInput) error {
	switch {
	case len(in.Username) < minUsernameLen:
		return ErrUsernameTooShort
	case !usernamePattern.MatchString(in.Username):
		return ErrUsernameInvalid
	case len([]rune(in.Password)) < minPasswordLen:
		return ErrPasswordTooShort
	case len(in.Password) > auth.MaxPasswordBytes:
		return ErrPasswordTooLong
	case in.Password != in.ConfirmPassword:
		return ErrPasswordMismatch
	}
	return nil
}
