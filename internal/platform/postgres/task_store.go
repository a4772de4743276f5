package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

const taskColumns = `id, owner_id, title, description, assignee, assignee_email, priority, status, due_date, created_at`

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
// Every statement filters on owner_id.
type PostgresTaskStore struct {
	gw     Gateway
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore
func NewPostgresTaskStore(gw Gateway, logger *slog.Logger) *PostgresTaskStore {
	return &PostgresTaskStore{
		gw:     gw,
		logger: logger.With("component", "postgres_task_store"),
	}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "invalid task", errors.Join(store.ErrInvalidEntity, err))
	}

	db, err := s.gw.Handle()
	if err != nil {
		return err
	}

	var dueDate sql.NullTime
	if task.DueDate != nil {
		dueDate = sql.NullTime{Time: *task.DueDate, Valid: true}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Assignee,
		task.AssigneeEmail,
		string(task.Priority),
		string(task.Status),
		dueDate,
		task.CreatedAt,
	)
	if err != nil {
		return storeError(s.gw, s.logger, "task", "create", err)
	}

	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	db, err := s.gw.Handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, storeError(s.gw, s.logger, "task", "list", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, storeError(s.gw, s.logger, "task", "list", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(s.gw, s.logger, "task", "list", err)
	}

	return tasks, nil
}

// DeleteByOwner implements store.TaskStore.DeleteByOwner with a single
// statement, so a task is removed only if the owner matches.
func (s *PostgresTaskStore) DeleteByOwner(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	db, err := s.gw.Handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING `+taskColumns,
		taskID,
		ownerID,
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, storeError(s.gw, s.logger, "task", "delete", err)
	}

	return task, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task     domain.Task
		priority string
		status   string
		dueDate  sql.NullTime
	)
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Assignee,
		&task.AssigneeEmail,
		&priority,
		&status,
		&dueDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	task.CreatedAt = task.CreatedAt.UTC()
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		task.DueDate = &due
	}
	return &task, nil
}
