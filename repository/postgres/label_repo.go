package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type labelRepository struct {
	pool *pgxpool.Pool
}

// NewLabelRepository returns a Postgres-backed implementation of LabelRepository.
func NewLabelRepository(pool *pgxpool.Pool) repository.LabelRepository {
	return &labelRepository{pool: pool}
}

func (r *labelRepository) GetByID(ctx context.Context, id string) (*domain.Label, error) {
	const query = `
	SELECT id, user_id, name, color, created_at
	FROM labels
	WHERE id = $1
	`
	return scanLabel(r.pool.QueryRow(ctx, query, id))
}

func (r *labelRepository) GetByName(ctx context.Context, userID, name string) (*domain.Label, error) {
	const query = `
	SELECT id, user_id, name, color, created_at
	FROM labels
	WHERE user_id = $1 AND name = $2
	`
	return scanLabel(r.pool.QueryRow(ctx, query, userID, name))
}

func (r *labelRepository) ListWithCounts(ctx context.Context, userID string) ([]domain.LabelWithCount, error) {
	const query = `
	SELECT l.id, l.user_id, l.name, l.color, l.created_at, COUNT(t.id)
	FROM labels l
	LEFT JOIN tasks t ON t.user_id = l.user_id AND l.id = ANY(t.label_ids)
	WHERE l.user_id = $1
	GROUP BY l.id, l.user_id, l.name, l.color, l.created_at
	ORDER BY l.created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.LabelWithCount
	for rows.Next() {
		var lc domain.LabelWithCount
		if err := rows.Scan(&lc.ID, &lc.UserID, &lc.Name, &lc.Color, &lc.CreatedAt, &lc.TaskCount); err != nil {
			return nil, err
		}
		labels = append(labels, lc)
	}
	return labels, rows.Err()
}

func (r *labelRepository) Create(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	if label == nil {
		return nil, domain.ErrInvalidPayload
	}
	if label.ID == "" {
		label.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO labels (id, user_id, name, color)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		label.ID,
		label.UserID,
		label.Name,
		label.Color,
	).Scan(&label.CreatedAt); err != nil {
		if uniqueViolation(err, "labels_user_id_name_key") {
			return nil, domain.ErrLabelNameTaken
		}
		return nil, err
	}
	return label, nil
}

func (r *labelRepository) Update(ctx context.Context, label *domain.Label) error {
	if label == nil || label.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE labels
	SET name = $2,
		color = $3
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, label.ID, label.Name, label.Color)
	if err != nil {
		if uniqueViolation(err, "labels_user_id_name_key") {
			return domain.ErrLabelNameTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}

func (r *labelRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM labels WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}

func scanLabel(row pgx.Row) (*domain.Label, error) {
	var label domain.Label
	if err := row.Scan(
		&label.ID,
		&label.UserID,
		&label.Name,
		&label.Color,
		&label.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLabelNotFound
		}
		return nil, err
	}
	return &label, nil
}
