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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskDocument is the stored shape of a task.
type taskDocument struct {
	ID            string     `bson:"_id"`
	OwnerID       string     `bson:"ownerId"`
	Title         string     `bson:"title"`
	Description   string     `bson:"description,omitempty"`
	Assignee      string     `bson:"assignee"`
	AssigneeEmail string     `bson:"assigneeEmail"`
	Priority      string     `bson:"priority,omitempty"`
	Status        string     `bson:"status"`
	DueDate       *time.Time `bson:"dueDate,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt"`
}

func newTaskDocument(t *domain.Task) taskDocument {
	return taskDocument{
		ID:            t.ID.String(),
		OwnerID:       t.OwnerID.String(),
		Title:         t.Title,
		Description:   t.Description,
		Assignee:      t.Assignee,
		AssigneeEmail: t.AssigneeEmail,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		DueDate:       t.DueDate,
		CreatedAt:     t.CreatedAt,
	}
}

func (d *taskDocument) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored task id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored owner id %q: %w", d.OwnerID, err)
	}

	task := &domain.Task{
		ID:            id,
		OwnerID:       owner,
		Title:         d.Title,
		Description:   d.Description,
		Assignee:      d.Assignee,
		AssigneeEmail: d.AssigneeEmail,
		Priority:      domain.Priority(d.Priority),
		Status:        domain.Status(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		task.DueDate = &due
	}
	return task, nil
}

// TaskStore implements store.TaskStore on a MongoDB collection. Every
// filter includes ownerId.
type TaskStore struct {
	gw     Gateway
	logger *slog.Logger
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore.
func NewTaskStore(gw Gateway, logger *slog.Logger) *TaskStore {
	return &TaskStore{gw: gw, logger: logger.With("component", "mongo_task_store")}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "invalid task", errors.Join(store.ErrInvalidEntity, err))
	}

	db, err := s.gw.Handle()
	if err != nil {
		return err
	}

	if _, err := db.Collection(tasksCollection).InsertOne(ctx, newTaskDocument(task)); err != nil {
		return storeError(s.gw, s.logger, "task", "create", err)
	}
	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	db, err := s.gw.Handle()
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})
	cursor, err := db.Collection(tasksCollection).Find(ctx, bson.M{"ownerId": ownerID.String()}, opts)
	if err != nil {
		return nil, storeError(s.gw, s.logger, "task", "list", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError(s.gw, s.logger, "task", "list", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for i := range docs {
		task, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// DeleteByOwner implements store.TaskStore.DeleteByOwner with a single
// FindOneAndDelete filtered on both id and owner.
func (s *TaskStore) DeleteByOwner(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	db, err := s.gw.Handle()
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": taskID.String(), "ownerId": ownerID.String()}
	var doc taskDocument
	if err := db.Collection(tasksCollection).FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrTaskNotFound
		}
		return nil, storeError(s.gw, s.logger, "task", "delete", err)
	}
	return doc.toDomain()
}
