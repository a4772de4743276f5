package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/gateway"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

// Gateway is the part of the connection gateway the stores depend on.
type Gateway interface {
	Handle() (*mongo.Database, error)
	MarkDown(err error)
}

// NewDriver returns the gateway driver for MongoDB. Server selection and
// socket operations are bounded by the configured timeouts so a dead server
// surfaces as an error instead of a hung request.
func NewDriver(cfg config.DatabaseConfig, logger *slog.Logger) gateway.Driver[*mongo.Database] {
	log := logger.With("component", "mongo")

	return gateway.Driver[*mongo.Database]{
		Name: config.DriverMongo,
		Dial: func(ctx context.Context) (*mongo.Database, error) {
			opts := options.Client().
				ApplyURI(cfg.URL).
				SetServerSelectionTimeout(cfg.ConnectTimeout).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetSocketTimeout(cfg.SocketTimeout)

			client, err := mongo.Connect(ctx, opts)
			if err != nil {
				return nil, fmt.Errorf("failed to create mongo client: %w", err)
			}

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("failed to ping mongo: %w", err)
			}

			db := client.Database(cfg.Name)
			if err := EnsureIndexes(ctx, db); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, err
			}

			log.Info("mongo connection established", "database", cfg.Name)
			return db, nil
		},
		Ping: func(ctx context.Context, db *mongo.Database) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
		Close: func(ctx context.Context, db *mongo.Database) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

// EnsureIndexes creates the unique email index and the owner listing index.
// Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerId", Value: 1},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		},
		Options: options.Index().SetName("tasks_owner_created_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}

	return nil
}

// IsConnectionError reports whether err means the server is unreachable.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		gateway.IsConnectivityError(err)
}

// MapError maps a driver error onto the store sentinels.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case IsConnectionError(err), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	return err
}

// storeError maps err, reports broken connections to the gateway and wraps
// the result with operation context.
func storeError(gw Gateway, logger *slog.Logger, entity, operation string, err error) error {
	if IsConnectionError(err) {
		gw.MarkDown(err)
		logger.Warn("mongo connection failure",
			"entity", entity,
			"operation", operation,
			"error", redact.Error(err))
	}
	return store.NewStoreError(entity, operation, "database operation failed", MapError(err))
}
