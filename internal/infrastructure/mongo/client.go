package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/taskforge/backend/internal/config"
	mongoRepo "github.com/taskforge/backend/repository/mongo"
)

// Connect establishes a Mongo client, verifies the connection and
// bootstraps the indexes the repositories rely on.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*mongo.Database, func(context.Context) error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := client.Database(cfg.Database)
	if err := ensureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return db, client.Disconnect, nil
}

// ensureIndexes creates the unique and lookup indexes. Uniqueness of label
// names is scoped per user, never global.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(mongoRepo.UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	tasks := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "label_ids", Value: 1}}},
	}
	if _, err := db.Collection(mongoRepo.TasksCollection).Indexes().CreateMany(ctx, tasks); err != nil {
		return err
	}

	labels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := db.Collection(mongoRepo.LabelsCollection).Indexes().CreateMany(ctx, labels)
	return err
}
