package sqlite

import (
	"context"
	"database/sql"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, mapError("list categories", err)
		}
		categories = append(categories, c)
	}
	return categories, mapError("list categories", rows.Err())
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	return c, mapError("get category", err)
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (model.Category, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return model.Category{}, mapError("create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, mapError("create category", err)
	}
	return model.Category{ID: id, Name: name}, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c model.Category) (model.Category, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", c.Name, c.ID)
	if err != nil {
		return c, mapError("update category", err)
	}
	return c, mapError("update category", requireAffected(res))
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE tasks SET category_id = NULL WHERE category_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	return mapError("delete category", err)
}
