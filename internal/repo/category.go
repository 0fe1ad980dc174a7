package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
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
	err := r.pool.QueryRow(ctx, "SELECT id, name FROM categories WHERE id = $1", id).Scan(&c.ID, &c.Name)
	return c, mapError("get category", err)
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		RETURNING id, name
	`, name).Scan(&c.ID, &c.Name)
	return c, mapError("create category", err)
}

func (r *CategoryRepo) Update(ctx context.Context, c model.Category) (model.Category, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $2 WHERE id = $1
		RETURNING id, name
	`, c.ID, c.Name).Scan(&c.ID, &c.Name)
	return c, mapError("update category", err)
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE tasks SET category_id = NULL WHERE category_id = $1", id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
		if err != nil {
			return err
		}
		return requireAffected(cmd)
	})
	return mapError("delete category", err)
}
