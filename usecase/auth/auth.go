package auth

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

const userCachePrefix = "user:"

// UseCase wires credential handling, token issuance and identity
// resolution over the user repository.
type UseCase struct {
	users    repository.UserRepository
	tokens   *TokenService
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, tokens *TokenService, userCache cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &UseCase{
		users:    users,
		tokens:   tokens,
		cache:    userCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Register creates a user account and logs it in immediately.
func (uc *UseCase) Register(ctx context.Context, email, username, password string) (*domain.User, *TokenPair, error) {
	if email == "" || username == "" {
		return nil, nil, domain.ErrInvalidPayload
	}
	if err := ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := uc.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.NewError(domain.ErrCodeUnauthorized, "incorrect email or password")
		}
		return nil, nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, nil, domain.NewError(domain.ErrCodeUnauthorized, "incorrect email or password")
	}
	if !user.Active() {
		return nil, nil, domain.ErrInactiveUser
	}

	pair, err := uc.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := uc.tokens.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active() {
		return nil, domain.ErrInactiveUser
	}

	return uc.tokens.IssuePair(user.ID)
}

// Resolve maps a bearer access token to a persisted user. Any token defect
// and a missing user yield the same unauthorized error; an inactive user is
// reported separately.
func (uc *UseCase) Resolve(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := uc.tokens.Verify(accessToken, TokenKindAccess)
	if err != nil {
		return nil, err
	}

	user := uc.cachedUser(ctx, userID)
	if user == nil {
		user, err = uc.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrUnauthorized
			}
			return nil, err
		}
		uc.storeUser(ctx, user)
	}

	if !user.Active() {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (uc *UseCase) cachedUser(ctx context.Context, userID string) *domain.User {
	if uc.cache == nil {
		return nil
	}
	raw, ok := uc.cache.Get(ctx, userCachePrefix+userID)
	if !ok {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		uc.cache.Delete(ctx, userCachePrefix+userID)
		return nil
	}
	return &user
}

func (uc *UseCase) storeUser(ctx context.Context, user *domain.User) {
	if uc.cache == nil || user == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	uc.cache.Set(ctx, userCachePrefix+user.ID, raw, uc.cacheTTL)
}
