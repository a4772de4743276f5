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

const userColumns = `id, first_name, last_name, email, hashed_password, created_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	gw     Gateway
	logger *slog.Logger
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
func NewPostgresUserStore(gw Gateway, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{
		gw:     gw,
		logger: logger.With("component", "postgres_user_store"),
	}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "invalid user", errors.Join(store.ErrInvalidEntity, err))
	}

	db, err := s.gw.Handle()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrEmailExists)
		}
		return storeError(s.gw, s.logger, "user", "create", err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, "get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, operation, query string, arg any) (*domain.User, error) {
	db, err := s.gw.Handle()
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, storeError(s.gw, s.logger, "user", operation, err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
