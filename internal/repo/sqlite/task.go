package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

const taskColumns = `t.id, t.title, t.description, t.due_date, t.status, t.priority,
	t.category_id, COALESCE(c.name, ''), t.user_id, t.created_at, t.updated_at`

const taskFrom = `FROM tasks t LEFT JOIN categories c ON c.id = t.category_id`

const taskOrder = `ORDER BY t.due_date IS NULL, t.due_date ASC,
	CASE t.priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
	t.id`

type TaskRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db, now: time.Now}
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` `+taskFrom+` WHERE t.id = ?`, id))
	return t, mapError("get task", err)
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	return r.list(ctx, "list tasks for user",
		`SELECT `+taskColumns+` `+taskFrom+` WHERE t.user_id = ? `+taskOrder, userID)
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, "list tasks", `SELECT `+taskColumns+` `+taskFrom+` `+taskOrder)
}

func (r *TaskRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

// Create inserts the task and reads it back in the same transaction.
func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	var created model.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := formatTime(r.now())
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (title, description, due_date, status, priority, category_id, user_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.Title, t.Description, formatDate(t.DueDate), string(t.Status), string(t.Priority),
			t.CategoryID, t.UserID, now, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created, err = scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` `+taskFrom+` WHERE t.id = ?`, id))
		return err
	})
	return created, mapError("create task", err)
}

func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	var updated model.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = ?, description = ?, due_date = ?, status = ?, priority = ?,
				category_id = ?, user_id = ?, updated_at = ?
			WHERE id = ?`,
			t.Title, t.Description, formatDate(t.DueDate), string(t.Status), string(t.Priority),
			t.CategoryID, t.UserID, formatTime(r.now()), t.ID)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		updated, err = scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` `+taskFrom+` WHERE t.id = ?`, t.ID))
		return err
	})
	return updated, mapError("update task", err)
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return mapError("delete task", err)
	}
	return mapError("delete task", requireAffected(res))
}

func (r *TaskRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE user_id = ?", userID).Scan(&n)
	return n, mapError("count tasks", err)
}

func scanTask(row scanner) (model.Task, error) {
	var (
		t                    model.Task
		due                  sql.NullString
		status, priority     string
		categoryID           sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &due, &status, &priority,
		&categoryID, &t.CategoryName, &t.UserID, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}
	if t.DueDate, err = parseDate(due); err != nil {
		return t, err
	}
	if t.Status, err = model.ParseStatus(status); err != nil {
		return t, err
	}
	if t.Priority, err = model.ParsePriority(priority); err != nil {
		return t, err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		t.CategoryID = &id
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return t, err
	}
	return t, nil
}
