// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"deckbox/internal/domain/entity"
	"deckbox/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *entity.User) error

	// FindUserByID retrieves a user by their unique ID.
	FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindUserByEmail retrieves a user by their email address.
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
}
