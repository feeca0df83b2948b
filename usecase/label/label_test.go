package label

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type fakeLabelRepo struct {
	labels map[string]*domain.Label
	seq    int
}

func newFakeLabelRepo() *fakeLabelRepo {
	return &fakeLabelRepo{labels: make(map[string]*domain.Label)}
}

func (r *fakeLabelRepo) GetByID(_ context.Context, id string) (*domain.Label, error) {
	if label, ok := r.labels[id]; ok {
		clone := *label
		return &clone, nil
	}
	return nil, domain.ErrLabelNotFound
}

func (r *fakeLabelRepo) GetByName(_ context.Context, userID, name string) (*domain.Label, error) {
	for _, label := range r.labels {
		if label.UserID == userID && label.Name == name {
			clone := *label
			return &clone, nil
		}
	}
	return nil, domain.ErrLabelNotFound
}

func (r *fakeLabelRepo) ListWithCounts(_ context.Context, userID string) ([]domain.LabelWithCount, error) {
	var out []domain.LabelWithCount
	for _, label := range r.labels {
		if label.UserID == userID {
			out = append(out, domain.LabelWithCount{Label: *label})
		}
	}
	return out, nil
}

func (r *fakeLabelRepo) Create(_ context.Context, label *domain.Label) (*domain.Label, error) {
	r.seq++
	label.ID = fmt.Sprintf("label-%d", r.seq)
	label.CreatedAt = time.Now()
	clone := *label
	r.labels[label.ID] = &clone
	return label, nil
}

func (r *fakeLabelRepo) Update(_ context.Context, label *domain.Label) error {
	if _, ok := r.labels[label.ID]; !ok {
		return domain.ErrLabelNotFound
	}
	clone := *label
	r.labels[label.ID] = &clone
	return nil
}

func (r *fakeLabelRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.labels[id]; !ok {
		return domain.ErrLabelNotFound
	}
	delete(r.labels, id)
	return nil
}

// fakeTaskRepo records label reference cleanups and serves nothing else.
type fakeTaskRepo struct {
	removedRefs [][2]string
}

func (r *fakeTaskRepo) GetByID(context.Context, string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (r *fakeTaskRepo) List(context.Context, repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (r *fakeTaskRepo) Update(context.Context, *domain.Task) error { return nil }

func (r *fakeTaskRepo) Delete(context.Context, string) error { return nil }

func (r *fakeTaskRepo) Stats(context.Context, string) (*domain.TaskStats, error) {
	return &domain.TaskStats{}, nil
}

func (r *fakeTaskRepo) RemoveLabelRefs(_ context.Context, userID, labelID string) error {
	r.removedRefs = append(r.removedRefs, [2]string{userID, labelID})
	return nil
}

func newTestUseCase(t *testing.T) (*UseCase, *fakeLabelRepo, *fakeTaskRepo) {
	t.Helper()
	labels := newFakeLabelRepo()
	tasks := &fakeTaskRepo{}
	return New(labels, tasks, nil), labels, tasks
}

func TestCreate(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	label, err := uc.Create(ctx, "u1", "work", "#FF0000")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if label.ID == "" || label.UserID != "u1" || label.Color != "#FF0000" {
		t.Errorf("unexpected label: %+v", label)
	}

	// Omitted color falls back to the default.
	plain, err := uc.Create(ctx, "u1", "home", "")
	if err != nil {
		t.Fatalf("Create without color failed: %v", err)
	}
	if plain.Color != domain.DefaultLabelColor {
		t.Errorf("default color = %q, want %q", plain.Color, domain.DefaultLabelColor)
	}
}

func TestCreateValidation(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", "", ""); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("empty name: expected INVALID, got %v", err)
	}

	for _, color := range []string{"red", "#FFF", "#GGGGGG", "3B82F6"} {
		if _, err := uc.Create(ctx, "u1", "x", color); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Errorf("color %q: expected INVALID, got %v", color, err)
		}
	}
}

func TestNameUniquePerUser(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	if _, err := uc.Create(ctx, "u1", "work", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uc.Create(ctx, "u1", "work", ""); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("duplicate name: expected CONFLICT, got %v", err)
	}
	// Another user may reuse the name.
	if _, err := uc.Create(ctx, "u2", "work", ""); err != nil {
		t.Errorf("same name for another user failed: %v", err)
	}
}

func TestGetGuardOrdering(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	owned, err := uc.Create(ctx, "u1", "work", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := uc.Get(ctx, "u2", "no-such-label"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("missing label: expected NOT_FOUND, got %v", err)
	}
	if _, err := uc.Get(ctx, "u2", owned.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("foreign label: expected FORBIDDEN, got %v", err)
	}
	if _, err := uc.Get(ctx, "u1", owned.ID); err != nil {
		t.Errorf("owner access failed: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	label, err := uc.Create(ctx, "u1", "work", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uc.Create(ctx, "u1", "home", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "office"
	color := "#00FF00"
	updated, err := uc.Update(ctx, "u1", label.ID, LabelPatch{Name: &name, Color: &color})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "office" || updated.Color != "#00FF00" {
		t.Errorf("patch not applied: %+v", updated)
	}

	// Renaming onto another label of the same user conflicts.
	taken := "home"
	if _, err := uc.Update(ctx, "u1", label.ID, LabelPatch{Name: &taken}); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("rename to taken name: expected CONFLICT, got %v", err)
	}

	// Re-submitting the current name is not a conflict.
	same := "office"
	if _, err := uc.Update(ctx, "u1", label.ID, LabelPatch{Name: &same}); err != nil {
		t.Errorf("no-op rename failed: %v", err)
	}

	bad := "blue"
	if _, err := uc.Update(ctx, "u1", label.ID, LabelPatch{Color: &bad}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("bad color: expected INVALID, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	uc, labels, tasks := newTestUseCase(t)
	ctx := context.Background()

	label, err := uc.Create(ctx, "u1", "work", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := uc.Delete(ctx, "u2", label.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("foreign delete: expected FORBIDDEN, got %v", err)
	}

	if err := uc.Delete(ctx, "u1", label.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := labels.labels[label.ID]; ok {
		t.Error("label still present after delete")
	}
	if len(tasks.removedRefs) != 1 || tasks.removedRefs[0] != [2]string{"u1", label.ID} {
		t.Errorf("reference cleanup not requested: %v", tasks.removedRefs)
	}

	if err := uc.Delete(ctx, "u1", label.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("second delete: expected NOT_FOUND, got %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	labels, err := uc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if labels == nil {
		t.Error("List should return an empty slice, not nil")
	}
}
