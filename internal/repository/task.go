package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devsync/devsync-go/internal/model"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (id, user_id, title, description, priority, status, deadline, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description,
		task.Priority, task.Status, task.Deadline, task.Completed,
	)
	return err
}

// GetByID retrieves a task by its ID regardless of owner.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT id, user_id, title, description, priority, status, deadline, completed, created_at, updated_at
		FROM tasks WHERE id = ?`

	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.Priority,
		&task.Status, &task.Deadline, &task.Completed, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// ListByUser retrieves all tasks owned by a user, ordered by ascending deadline.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	query := `SELECT id, user_id, title, description, priority, status, deadline, completed, created_at, updated_at
		FROM tasks WHERE user_id = ? ORDER BY deadline ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
			&t.Status, &t.Deadline, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update persists the mutable fields of an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?, deadline = ?, completed = ?
		WHERE id = ?`

	// A no-op update reports zero affected rows in MySQL, so existence is
	// checked by the caller's load rather than by RowsAffected here.
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Priority, task.Status,
		task.Deadline, task.Completed, task.ID,
	)
	return err
}

// Delete removes a task permanently.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return requireRow(result, ErrTaskNotFound)
}

// requireRow returns notFound if the statement matched no rows.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
