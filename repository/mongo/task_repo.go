package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type taskRepository struct {
	col *mongo.Collection
}

// NewTaskRepository returns a Mongo-backed implementation of TaskRepository.
func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &taskRepository{col: db.Collection(TasksCollection)}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := bson.M{"user_id": filter.UserID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.LabelID != "" {
		query["label_ids"] = filter.LabelID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(clampLimit(filter.Limit))).
		SetSkip(int64(filter.Offset))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = newID()
	}
	if task.LabelIDs == nil {
		task.LabelIDs = []string{}
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	if task.LabelIDs == nil {
		task.LabelIDs = []string{}
	}
	task.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"priority":    task.Priority,
		"due_date":    task.DueDate,
		"label_ids":   task.LabelIDs,
		"updated_at":  task.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Stats(ctx context.Context, userID string) (*domain.TaskStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}

	stats := &domain.TaskStats{}
	for _, b := range buckets {
		stats.Total += b.Count
		switch b.Status {
		case domain.TaskStatusPending:
			stats.Pending = b.Count
		case domain.TaskStatusInProgress:
			stats.InProgress = b.Count
		case domain.TaskStatusCompleted:
			stats.Completed = b.Count
		}
	}
	return stats, nil
}

func (r *taskRepository) RemoveLabelRefs(ctx context.Context, userID, labelID string) error {
	filter := bson.M{"user_id": userID, "label_ids": labelID}
	update := bson.M{
		"$pull": bson.M{"label_ids": labelID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	_, err := r.col.UpdateMany(ctx, filter, update)
	return err
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
