package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// TaskFilter narrows task listings. UserID is mandatory: tasks are never
// listed across owners.
type TaskFilter struct {
	UserID  string
	Status  string
	LabelID string
	Limit   int
	Offset  int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (*domain.TaskStats, error)
	// RemoveLabelRefs pulls the label id from every task owned by userID.
	RemoveLabelRefs(ctx context.Context, userID, labelID string) error
}
