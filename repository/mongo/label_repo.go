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

type labelRepository struct {
	col *mongo.Collection
}

// NewLabelRepository returns a Mongo-backed implementation of LabelRepository.
func NewLabelRepository(db *mongo.Database) repository.LabelRepository {
	return &labelRepository{col: db.Collection(LabelsCollection)}
}

func (r *labelRepository) GetByID(ctx context.Context, id string) (*domain.Label, error) {
	var label domain.Label
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&label); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLabelNotFound
		}
		return nil, err
	}
	return &label, nil
}

func (r *labelRepository) GetByName(ctx context.Context, userID, name string) (*domain.Label, error) {
	var label domain.Label
	filter := bson.M{"user_id": userID, "name": name}
	if err := r.col.FindOne(ctx, filter).Decode(&label); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLabelNotFound
		}
		return nil, err
	}
	return &label, nil
}

func (r *labelRepository) ListWithCounts(ctx context.Context, userID string) ([]domain.LabelWithCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         TasksCollection,
			"localField":   "_id",
			"foreignField": "label_ids",
			"as":           "tasks",
		}}},
		{{Key: "$addFields", Value: bson.M{"task_count": bson.M{"$size": "$tasks"}}}},
		{{Key: "$project", Value: bson.M{"tasks": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var labels []domain.LabelWithCount
	if err := cursor.All(ctx, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *labelRepository) Create(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	if label == nil {
		return nil, domain.ErrInvalidPayload
	}
	if label.ID == "" {
		label.ID = newID()
	}
	label.CreatedAt = time.Now().UTC()

	if _, err := r.col.InsertOne(ctx, label); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrLabelNameTaken
		}
		return nil, err
	}
	return label, nil
}

func (r *labelRepository) Update(ctx context.Context, label *domain.Label) error {
	if label == nil || label.ID == "" {
		return domain.ErrInvalidPayload
	}

	update := bson.M{"$set": bson.M{
		"name":  label.Name,
		"color": label.Color,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": label.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrLabelNameTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}

func (r *labelRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}
