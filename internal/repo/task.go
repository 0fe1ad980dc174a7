package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

const taskColumns = `t.id, t.title, t.description, t.due_date, t.status, t.priority,
	t.category_id, COALESCE(c.name, ''), t.user_id, t.created_at, t.updated_at`

const taskOrder = `ORDER BY t.due_date ASC NULLS LAST,
	CASE t.priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
	t.id`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1
	`, id))
	return t, mapError("get task", err)
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	return r.list(ctx, "list tasks for user", `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		`+taskOrder, userID)
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, "list tasks", `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		`+taskOrder)
}

func (r *TaskRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, mapError(op, rows.Err())
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		WITH t AS (
			INSERT INTO tasks (title, description, due_date, status, priority, category_id, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT `+taskColumns+`
		FROM t
		LEFT JOIN categories c ON c.id = t.category_id
	`, t.Title, t.Description, dateParam(t.DueDate), string(t.Status), string(t.Priority), t.CategoryID, t.UserID))
	return created, mapError("create task", err)
}

func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		WITH t AS (
			UPDATE tasks
			SET title = $2, description = $3, due_date = $4, status = $5, priority = $6,
				category_id = $7, user_id = $8, updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+taskColumns+`
		FROM t
		LEFT JOIN categories c ON c.id = t.category_id
	`, t.ID, t.Title, t.Description, dateParam(t.DueDate), string(t.Status), string(t.Priority), t.CategoryID, t.UserID))
	return updated, mapError("update task", err)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return mapError("delete task", err)
	}
	return requireAffected(cmd)
}

func (r *TaskRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE user_id = $1", userID).Scan(&n)
	return n, mapError("count tasks", err)
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t                model.Task
		status, priority string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &status, &priority,
		&t.CategoryID, &t.CategoryName, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	if t.Status, err = model.ParseStatus(status); err != nil {
		return t, err
	}
	if t.Priority, err = model.ParsePriority(priority); err != nil {
		return t, err
	}
	if t.DueDate != nil {
		d := model.Date(*t.DueDate)
		t.DueDate = &d
	}
	return t, nil
}

func dateParam(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := model.Date(*d)
	return &v
}
