package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, status, priority, due_date, label_ids, created_at, updated_at
	FROM tasks
	WHERE id = $1
	`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, status, priority, due_date, label_ids, created_at, updated_at
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR $3 = ANY(label_ids))
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.Status,
		filter.LabelID,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.LabelIDs == nil {
		task.LabelIDs = []string{}
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, label_ids)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.LabelIDs,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	if task.LabelIDs == nil {
		task.LabelIDs = []string{}
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		label_ids = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.LabelIDs,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Stats(ctx context.Context, userID string) (*domain.TaskStats, error) {
	const query = `
	SELECT status, COUNT(*)
	FROM tasks
	WHERE user_id = $1
	GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.TaskStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case domain.TaskStatusPending:
			stats.Pending = count
		case domain.TaskStatusInProgress:
			stats.InProgress = count
		case domain.TaskStatusCompleted:
			stats.Completed = count
		}
	}
	return stats, rows.Err()
}

func (r *taskRepository) RemoveLabelRefs(ctx context.Context, userID, labelID string) error {
	const query = `
	UPDATE tasks
	SET label_ids = array_remove(label_ids, $2),
		updated_at = NOW()
	WHERE user_id = $1 AND $2 = ANY(label_ids)
	`
	_, err := r.pool.Exec(ctx, query, userID, labelID)
	return err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var due *time.Time

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&due,
		&task.LabelIDs,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task.DueDate = due
	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
