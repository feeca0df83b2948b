package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/cache"
)

type fakeUserRepo struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	seq         int
	getByIDHits int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDHits++
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func newTestUseCase(t *testing.T, users *fakeUserRepo, c cache.Cache) *UseCase {
	t.Helper()
	tokens := NewTokenService("test-secret", "taskforge-test", time.Minute, time.Hour)
	return New(users, tokens, c, time.Minute, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, nil)
	ctx := context.Background()

	user, pair, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("register should return a populated user and token pair")
	}
	if !user.IsActive {
		t.Error("new users should be active")
	}

	if _, _, err := uc.Register(ctx, "alice@example.com", "alice2", "Secret123!"); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("duplicate email should conflict, got %v", err)
	}

	if _, _, err := uc.Login(ctx, "alice@example.com", "Secret123!"); err != nil {
		t.Errorf("login with correct credentials failed: %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, nil)
	ctx := context.Background()

	if _, _, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, _, unknownErr := uc.Login(ctx, "nobody@example.com", "Secret123!")
	_, _, wrongErr := uc.Login(ctx, "alice@example.com", "WrongPass1!")
	if !domain.IsDomainError(unknownErr, domain.ErrCodeUnauthorized) {
		t.Errorf("unknown email: expected unauthorized, got %v", unknownErr)
	}
	if !domain.IsDomainError(wrongErr, domain.ErrCodeUnauthorized) {
		t.Errorf("wrong password: expected unauthorized, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("login failures leak which part was wrong: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, nil)
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	repo.users[user.ID].IsActive = false

	if _, _, err := uc.Login(ctx, "alice@example.com", "Secret123!"); !domain.IsDomainError(err, domain.ErrCodeInactive) {
		t.Errorf("inactive login: expected INACTIVE, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, nil)
	ctx := context.Background()

	user, pair, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	resolved, err := uc.Resolve(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved user = %q, want %q", resolved.ID, user.ID)
	}

	if _, err := uc.Resolve(ctx, "garbage"); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("garbage token: expected unauthorized, got %v", err)
	}

	// A valid token whose subject no longer exists is unauthorized, not 500.
	delete(repo.users, user.ID)
	if _, err := uc.Resolve(ctx, pair.AccessToken); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("missing user: expected unauthorized, got %v", err)
	}
}

func TestResolveInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, nil)
	ctx := context.Background()

	user, pair, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	repo.users[user.ID].IsActive = false

	if _, err := uc.Resolve(ctx, pair.AccessToken); !domain.IsDomainError(err, domain.ErrCodeInactive) {
		t.Errorf("inactive user: expected INACTIVE, got %v", err)
	}
}

func TestResolveUsesCache(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, cache.NewMemory())
	ctx := context.Background()

	_, pair, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := uc.Resolve(ctx, pair.AccessToken); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	hits := repo.getByIDHits
	if _, err := uc.Resolve(ctx, pair.AccessToken); err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if repo.getByIDHits != hits {
		t.Errorf("second resolve hit the repository (%d -> %d), cache not used", hits, repo.getByIDHits)
	}
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(t, repo, nil)
	ctx := context.Background()

	_, pair, err := uc.Register(ctx, "alice@example.com", "alice", "Secret123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	fresh, err := uc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if fresh.AccessToken == "" {
		t.Error("refresh should return a new access token")
	}

	// An access token is not a refresh token.
	if _, err := uc.Refresh(ctx, pair.AccessToken); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("refresh with access token: expected unauthorized, got %v", err)
	}
}
