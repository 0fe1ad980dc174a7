package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

const userColumns = `id, username, password_hash, role, created_at`

type UserRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	return u, mapError("get user by username", err)
}

func (r *UserRepo) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, mapError("get user", err)
}

func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	var created model.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
			u.Username, u.PasswordHash, string(u.Role), formatTime(r.now()))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created, err = scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
		return err
	})
	return created, mapError("create user", err)
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
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
	var updated model.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET username = ?, role = ? WHERE id = ?`,
			u.Username, string(u.Role), u.ID)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		updated, err = scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, u.ID))
		return err
	})
	return updated, mapError("update user", err)
}

// Delete removes the user's tasks explicitly so the cascade holds even when
// foreign keys are disabled on the connection.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	return mapError("delete user", err)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, mapError("count users", err)
}

func scanUser(row scanner) (model.User, error) {
	var (
		u         model.User
		role      string
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &createdAt)
	if err != nil {
		return u, err
	}
	if u.Role, err = model.ParseRole(role); err != nil {
		return u, err
	}
	u.CreatedAt, err = parseTime(createdAt)
	return u, err
}
