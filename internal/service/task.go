package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

// Dashboard is the filtered task view. Overall summarizes every visible task,
// Filtered summarizes only Tasks.
type Dashboard struct {
	Tasks      []model.Task     `json:"tasks"`
	Categories []model.Category `json:"categories"`
	Overall    model.Summary    `json:"overall"`
	Filtered   model.Summary    `json:"filtered"`
}

type TaskService struct {
	tasks      repo.TaskRepository
	categories repo.CategoryRepository
	users      repo.UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewTaskService(tasks repo.TaskRepository, categories repo.CategoryRepository, users repo.UserRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:      tasks,
		categories: categories,
		users:      users,
		logger:     logger,
		now:        time.Now,
	}
}

// Visible returns every task for an ADMIN and the caller's own tasks otherwise.
func (s *TaskService) Visible(ctx context.Context, caller model.User) ([]model.Task, error) {
	if caller.IsAdmin() {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.ListByUser(ctx, caller.ID)
}

// Dashboard loads the visible tasks and the category list, applies f and
// reports both the overall and the filtered counts.
func (s *TaskService) Dashboard(ctx context.Context, caller model.User, f model.TaskFilter) (Dashboard, error) {
	var (
		visible    []model.Task
		categories []model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		visible, err = s.Visible(gctx, caller)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	filtered := FilterTasks(visible, f, s.now())
	return Dashboard{
		Tasks:      filtered,
		Categories: categories,
		Overall:    Summarize(visible),
		Filtered:   Summarize(filtered),
	}, nil
}

func (s *TaskService) Get(ctx context.Context, caller model.User, id int64) (model.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !canAccess(caller, t) {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

// Create stores a new task. A USER always owns what they create; an ADMIN may
// assign the task to any existing user.
func (s *TaskService) Create(ctx context.Context, caller model.User, t model.Task) (model.Task, error) {
	if t.UserID == 0 {
		t.UserID = caller.ID
	}
	if !caller.IsAdmin() && t.UserID != caller.ID {
		return model.Task{}, ErrForbidden
	}
	if err := normalize(&t); err != nil {
		return model.Task{}, err
	}
	if err := s.checkReferences(ctx, caller, t); err != nil {
		return model.Task{}, err
	}

	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		return model.Task{}, err
	}
	s.logger.Info("task created",
		zap.Int64("task_id", created.ID),
		zap.Int64("user_id", created.UserID),
		zap.Int64("by", caller.ID),
	)
	return created, nil
}

// Update replaces the editable fields of an existing task. Any status may be
// set from any other status.
func (s *TaskService) Update(ctx context.Context, caller model.User, t model.Task) (model.Task, error) {
	existing, err := s.Get(ctx, caller, t.ID)
	if err != nil {
		return model.Task{}, err
	}
	if t.UserID == 0 {
		t.UserID = existing.UserID
	}
	if !caller.IsAdmin() && t.UserID != caller.ID {
		return model.Task{}, ErrForbidden
	}
	if err := normalize(&t); err != nil {
		return model.Task{}, err
	}
	if err := s.checkReferences(ctx, caller, t); err != nil {
		return model.Task{}, err
	}

	return s.tasks.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, caller model.User, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", zap.Int64("task_id", id), zap.Int64("by", caller.ID))
	return nil
}

// normalize trims and defaults the task fields and rejects values outside the enums.
func normalize(t *model.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Title == "" {
		return ErrTitleRequired
	}

	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}

	if t.DueDate != nil {
		d := model.Date(*t.DueDate)
		t.DueDate = &d
	}
	return nil
}

func (s *TaskService) checkReferences(ctx context.Context, caller model.User, t model.Task) error {
	if t.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *t.CategoryID); err != nil {
			if errors.Is(err, repo.ErrorNotFound) {
				return ErrUnknownCategory
			}
			return err
		}
	}
	if t.UserID != caller.ID {
		if _, err := s.users.Get(ctx, t.UserID); err != nil {
			if errors.Is(err, repo.ErrorNotFound) {
				return ErrUnknownAssignee
			}
			return err
		}
	}
	return nil
}
