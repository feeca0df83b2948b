package label

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LabelPatch carries the fields of a partial label update.
type LabelPatch struct {
	Name  *string
	Color *string
}

type UseCase struct {
	labels repository.LabelRepository
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(labels repository.LabelRepository, tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		labels: labels,
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.LabelWithCount, error) {
	labels, err := uc.labels.ListWithCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []domain.LabelWithCount{}
	}
	return labels, nil
}

// Get loads a label and enforces ownership, not-found first.
func (uc *UseCase) Get(ctx context.Context, userID, labelID string) (*domain.Label, error) {
	label, err := uc.labels.GetByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if label.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return label, nil
}

// Create adds a label. Names are unique per user; the same name may exist
// for two different users.
func (uc *UseCase) Create(ctx context.Context, userID, name, color string) (*domain.Label, error) {
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "label name is required")
	}
	if color != "" && !hexColor.MatchString(color) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "color must be a hex string like #3B82F6")
	}

	if _, err := uc.labels.GetByName(ctx, userID, name); err == nil {
		return nil, domain.ErrLabelNameTaken
	} else if !errors.Is(err, domain.ErrLabelNotFound) {
		return nil, err
	}

	if color == "" {
		color = domain.DefaultLabelColor
	}
	return uc.labels.Create(ctx, &domain.Label{
		UserID: userID,
		Name:   name,
		Color:  color,
	})
}

func (uc *UseCase) Update(ctx context.Context, userID, labelID string, patch LabelPatch) (*domain.Label, error) {
	label, err := uc.Get(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != label.Name {
		if *patch.Name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "label name is required")
		}
		if _, err := uc.labels.GetByName(ctx, userID, *patch.Name); err == nil {
			return nil, domain.ErrLabelNameTaken
		} else if !errors.Is(err, domain.ErrLabelNotFound) {
			return nil, err
		}
		label.Name = *patch.Name
	}
	if patch.Color != nil {
		if !hexColor.MatchString(*patch.Color) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "color must be a hex string like #3B82F6")
		}
		label.Color = *patch.Color
	}

	if err := uc.labels.Update(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

// Delete removes a label and pulls its id from every task of the owner, so
// no task is left with a dangling reference.
func (uc *UseCase) Delete(ctx context.Context, userID, labelID string) error {
	if _, err := uc.Get(ctx, userID, labelID); err != nil {
		return err
	}
	if err := uc.labels.Delete(ctx, labelID); err != nil {
		return err
	}
	if err := uc.tasks.RemoveLabelRefs(ctx, userID, labelID); err != nil {
		// The label itself is gone; a failed cleanup leaves stale ids that
		// list filters simply stop matching.
		uc.logger.Error("label reference cleanup failed",
			zap.String("label_id", labelID), zap.Error(err))
	}
	return nil
}
