package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/cache"
	"github.com/taskforge/backend/repository"
)

const userCachePrefix = "user:"

type UseCase struct {
	users  repository.UserRepository
	cache  cache.Cache
	logger *zap.Logger
}

func New(users repository.UserRepository, userCache cache.Cache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		cache:  userCache,
		logger: logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Update changes the user's email and/or username. Empty fields are left
// untouched. The cached identity is invalidated so the next request sees
// the fresh record.
func (uc *UseCase) Update(ctx context.Context, userID, email, username string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Delete(ctx, userCachePrefix+userID)
	}
	return user, nil
}
