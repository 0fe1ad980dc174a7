package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

// CategoryService lets anyone list categories and only ADMINs change them.
type CategoryService struct {
	categories repo.CategoryRepository
	logger     *zap.Logger
}

func NewCategoryService(categories repo.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// Search returns the categories whose name contains query, ignoring case.
func (s *CategoryService) Search(ctx context.Context, query string) ([]model.Category, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	out := make([]model.Category, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CategoryService) Create(ctx context.Context, caller model.User, name string) (model.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return model.Category{}, err
	}
	name, err := normalizeCategoryName(name)
	if err != nil {
		return model.Category{}, err
	}

	c, err := s.categories.Create(ctx, name)
	if errors.Is(err, repo.ErrorConflict) {
		return model.Category{}, ErrCategoryExists
	}
	if err != nil {
		return model.Category{}, err
	}
	s.logger.Info("category created", zap.Int64("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *CategoryService) Rename(ctx context.Context, caller model.User, id int64, name string) (model.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return model.Category{}, err
	}
	name, err := normalizeCategoryName(name)
	if err != nil {
		return model.Category{}, err
	}

	c, err := s.categories.Update(ctx, model.Category{ID: id, Name: name})
	if errors.Is(err, repo.ErrorConflict) {
		return model.Category{}, ErrCategoryExists
	}
	return c, err
}

// Delete removes the category; its tasks stay and become uncategorized.
func (s *CategoryService) Delete(ctx context.Context, caller model.User, id int64) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", zap.Int64("category_id", id), zap.Int64("by", caller.ID))
	return nil
}

// normalizeCategoryName trims name and rejects values a category cannot
// carry, including the label reserved for tasks without one.
func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", ErrCategoryNameRequired
	case strings.EqualFold(name, model.UncategorizedLabel):
		return "", ErrCategoryNameReserved
	}
	return name, nil
}
