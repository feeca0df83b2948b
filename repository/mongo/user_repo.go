package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository instantiates a Mongo-backed user repository.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{col: db.Collection(UsersCollection)}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = newID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.WrapError(domain.ErrCodeConflict, "email or username already registered", err)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	user.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"email":      user.Email,
		"username":   user.Username,
		"is_active":  user.IsActive,
		"updated_at": user.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.WrapError(domain.ErrCodeConflict, "email or username already registered", err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
