package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// userDocument is the stored shape of a user.
type userDocument struct {
	ID             string    `bson:"_id"`
	FirstName      string    `bson:"firstName"`
	LastName       string    `bson:"lastName"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"password"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func (d *userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored user id %q: %w", d.ID, err)
	}
	return &domain.User{
		ID:             id,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		CreatedAt:      d.CreatedAt.UTC(),
	}, nil
}

// UserStore implements store.UserStore on a MongoDB collection.
type UserStore struct {
	gw     Gateway
	logger *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore.
func NewUserStore(gw Gateway, logger *slog.Logger) *UserStore {
	return &UserStore{gw: gw, logger: logger.With("component", "mongo_user_store")}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "invalid user", errors.Join(store.ErrInvalidEntity, err))
	}

	db, err := s.gw.Handle()
	if err != nil {
		return err
	}

	_, err = db.Collection(usersCollection).InsertOne(ctx, userDocument{
		ID:             user.ID.String(),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		CreatedAt:      user.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return storeError(s.gw, s.logger, "user", "create", err)
	}
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, "get_by_id", bson.M{"_id": id.String()})
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, "get_by_email", bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, operation string, filter bson.M) (*domain.User, error) {
	db, err := s.gw.Handle()
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := db.Collection(usersCollection).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, storeError(s.gw, s.logger, "user", operation, err)
	}
	return doc.toDomain()
}
