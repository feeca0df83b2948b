package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

type LabelRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Label, error)
	// GetByName looks a label up by its per-user unique name.
	GetByName(ctx context.Context, userID, name string) (*domain.Label, error)
	// ListWithCounts returns the user's labels together with the number of
	// tasks referencing each one.
	ListWithCounts(ctx context.Context, userID string) ([]domain.LabelWithCount, error)
	Create(ctx context.Context, label *domain.Label) (*domain.Label, error)
	Update(ctx context.Context, label *domain.Label) error
	Delete(ctx context.Context, id string) error
}
