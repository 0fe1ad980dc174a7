package repo

import (
	"context"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// UserRepository stores accounts. Usernames are unique and matched case-sensitively.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	// Delete removes the user together with their tasks.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// CategoryRepository stores categories ordered by name.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id int64) (model.Category, error)
	Create(ctx context.Context, name string) (model.Category, error)
	Update(ctx context.Context, c model.Category) (model.Category, error)
	// Delete removes the category and leaves referencing tasks uncategorized.
	Delete(ctx context.Context, id int64) error
}

// TaskRepository stores tasks. Lists are ordered by due date (undated last),
// then priority descending, then id.
type TaskRepository interface {
	Get(ctx context.Context, id int64) (model.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users      UserRepository
	Categories CategoryRepository
	Tasks      TaskRepository
	Close      func()
}
