package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/cache"
	"github.com/taskforge/backend/repository"
)

const statsCachePrefix = "task_stats:"

// TaskPatch carries the fields of a partial task update. Nil fields are
// left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	LabelIDs    *[]string
}

type UseCase struct {
	tasks    repository.TaskRepository
	labels   repository.LabelRepository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, labels repository.LabelRepository, statsCache cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &UseCase{
		tasks:    tasks,
		labels:   labels,
		cache:    statsCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Get loads a task and enforces ownership. A task that does not exist is
// reported as not found before ownership is ever evaluated.
func (uc *UseCase) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (uc *UseCase) Create(ctx context.Context, userID string, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
	}
	task.UserID = userID
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if !domain.ValidTaskStatus(task.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}
	if !domain.ValidTaskPriority(task.Priority) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task priority")
	}
	if err := uc.checkLabels(ctx, userID, task.LabelIDs); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.invalidateStats(ctx, userID)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, userID, taskID string, patch TaskPatch) (*domain.Task, error) {
	task, err := uc.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		if !domain.ValidTaskStatus(*patch.Status) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
		}
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !domain.ValidTaskPriority(*patch.Priority) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task priority")
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.LabelIDs != nil {
		if err := uc.checkLabels(ctx, userID, *patch.LabelIDs); err != nil {
			return nil, err
		}
		task.LabelIDs = *patch.LabelIDs
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.invalidateStats(ctx, userID)
	return task, nil
}

func (uc *UseCase) UpdateStatus(ctx context.Context, userID, taskID, status string) (*domain.Task, error) {
	return uc.Update(ctx, userID, taskID, TaskPatch{Status: &status})
}

func (uc *UseCase) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := uc.Get(ctx, userID, taskID); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	uc.invalidateStats(ctx, userID)
	return nil
}

// AttachLabel adds a label reference to a task. The label must exist and
// belong to the same user.
func (uc *UseCase) AttachLabel(ctx context.Context, userID, taskID, labelID string) (*domain.Task, error) {
	task, err := uc.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	label, err := uc.labels.GetByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if label.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if task.HasLabel(labelID) {
		return task, nil
	}
	task.LabelIDs = append(task.LabelIDs, labelID)

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) DetachLabel(ctx context.Context, userID, taskID, labelID string) (*domain.Task, error) {
	task, err := uc.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.HasLabel(labelID) {
		return task, nil
	}

	kept := task.LabelIDs[:0]
	for _, id := range task.LabelIDs {
		if id != labelID {
			kept = append(kept, id)
		}
	}
	task.LabelIDs = kept

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Stats returns the user's per-status task counts, served from the cache
// when fresh enough.
func (uc *UseCase) Stats(ctx context.Context, userID string) (*domain.TaskStats, error) {
	if uc.cache != nil {
		if raw, ok := uc.cache.Get(ctx, statsCachePrefix+userID); ok {
			var stats domain.TaskStats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := uc.tasks.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			uc.cache.Set(ctx, statsCachePrefix+userID, raw, uc.cacheTTL)
		}
	}
	return stats, nil
}

func (uc *UseCase) checkLabels(ctx context.Context, userID string, labelIDs []string) error {
	for _, id := range labelIDs {
		label, err := uc.labels.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrLabelNotFound) {
				return domain.NewError(domain.ErrCodeInvalid, "unknown label id")
			}
			return err
		}
		if label.UserID != userID {
			return domain.NewError(domain.ErrCodeInvalid, "unknown label id")
		}
	}
	return nil
}

func (uc *UseCase) invalidateStats(ctx context.Context, userID string) {
	if uc.cache != nil {
		uc.cache.Delete(ctx, statsCachePrefix+userID)
	}
}
