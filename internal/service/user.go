package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

// UserDirectory is the admin user listing with role totals.
type UserDirectory struct {
	Users  []model.UserSummary `json:"users"`
	Total  int                 `json:"total"`
	Admins int                 `json:"admins"`
	Plain  int                 `json:"users_count"`
}

// UserService is the ADMIN-only account management.
type UserService struct {
	users  repo.UserRepository
	tasks  repo.TaskRepository
	logger *zap.Logger
}

func NewUserService(users repo.UserRepository, tasks repo.TaskRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, logger: logger}
}

func (s *UserService) List(ctx context.Context, caller model.User) (UserDirectory, error) {
	if err := requireAdmin(caller); err != nil {
		return UserDirectory{}, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return UserDirectory{}, err
	}

	dir := UserDirectory{Users: make([]model.UserSummary, 0, len(users)), Total: len(users)}
	for _, u := range users {
		n, err := s.tasks.CountByUser(ctx, u.ID)
		if err != nil {
			return UserDirectory{}, err
		}
		dir.Users = append(dir.Users, model.UserSummary{User: u, TaskCount: n})
		if u.IsAdmin() {
			dir.Admins++
		} else {
			dir.Plain++
		}
	}
	return dir, nil
}

func (s *UserService) ChangeRole(ctx context.Context, caller model.User, id int64, role model.Role) (model.User, error) {
	if err := requireAdmin(caller); err != nil {
		return model.User{}, err
	}
	if !role.Valid() {
		return model.User{}, ErrInvalidRole
	}
	if id == caller.ID && role != model.RoleAdmin {
		return model.User{}, ErrSelfModification
	}

	u, err := s.users.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	u.Role = role
	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return model.User{}, err
	}
	s.logger.Info("user role changed",
		zap.Int64("user_id", id),
		zap.String("role", string(role)),
		zap.Int64("by", caller.ID),
	)
	return updated, nil
}

// Delete removes the account and every task it owns.
func (s *UserService) Delete(ctx context.Context, caller model.User, id int64) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if id == caller.ID {
		return ErrSelfModification
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("by", caller.ID))
	return nil
}
