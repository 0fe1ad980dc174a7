package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`, username))
	return u, mapError("get user by username", err)
}

func (r *UserRepo) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id))
	return u, mapError("get user", err)
}

func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, role, created_at
	`, u.Username, u.PasswordHash, string(u.Role)))
	return created, mapError("create user", err)
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("list users", err)
		}
		users = append(users, u)
	}
	return users, mapError("list users", rows.Err())
}

func (r *UserRepo) Update(ctx context.Context, u model.User) (model.User, error) {
	updated, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET username = $2, role = $3
		WHERE id = $1
		RETURNING id, username, password_hash, role, created_at
	`, u.ID, u.Username, string(u.Role)))
	return updated, mapError("update user", err)
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM tasks WHERE user_id = $1", id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
		if err != nil {
			return err
		}
		return requireAffected(cmd)
	})
	return mapError("delete user", err)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, mapError("count users", err)
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return u, err
	}
	var err error
	u.Role, err = model.ParseRole(role)
	return u, err
}
