package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"usercache-be/internal/entities"
)

//go:generate mockgen -destination=../mocks/mock_user_repository.go -package=mocks usercache-be/internal/repository UserRepository

// UserRepository defines the interface for user storage.
// FindByID reports a missing user as (nil, nil).
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
	Create(ctx context.Context, fields entities.UserFields) (*entities.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new Postgres-backed user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, fields entities.UserFields) (*entities.User, error) {
	query := `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, created_at
	`

	var user entities.User
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), fields.Name, fields.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// FindByID finds a user by ID. Ids that are not UUIDs cannot exist in the
// table and are reported as missing without a query.
func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `
		SELECT id, name, email, created_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
