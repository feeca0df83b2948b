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

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT id, email, username, hashed_password, is_active, created_at, updated_at
	FROM users
	WHERE id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, email, username, hashed_password, is_active, created_at, updated_at
	FROM users
	WHERE email = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, email, username, hashed_password, is_active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		if uniqueViolation(err, "users_email_key") {
			return nil, domain.ErrEmailTaken
		}
		if uniqueViolation(err, "users_username_key") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET email = $2,
		username = $3,
		is_active = $4,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.IsActive,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if uniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		if uniqueViolation(err, "users_username_key") {
			return domain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
