// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"deckbox/internal/domain/entity"
	"deckbox/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for box persistence.
var (
	// ErrBoxNotFound is returned when a box is not found.
	ErrBoxNotFound = errors.New("box not found")
	// ErrStaleRevision is returned when a revision-checked update matched no
	// row, meaning another writer got there first.
	ErrStaleRevision = errors.New("aggregate revision is stale")
)

// BoxRepository defines the interface for box-related database operations.
type BoxRepository interface {
	// CreateBox persists a new box.
	CreateBox(ctx context.Context, box *entity.Box) error

	// FindBoxByID retrieves a box by its unique ID.
	FindBoxByID(ctx context.Context, id uuid.UUID) (*entity.Box, error)

	// FindBoxesByUser retrieves all boxes owned by a user, most recently updated first.
	FindBoxesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Box, error)

	// FindPublicBoxByID retrieves a box only if it is public.
	FindPublicBoxByID(ctx context.Context, id uuid.UUID) (*entity.Box, error)

	// UpdateBox saves the box and bumps its revision unconditionally.
	UpdateBox(ctx context.Context, box *entity.Box) error

	// UpdateBoxWithRevision saves the box only if its stored revision still
	// equals expectedRevision; returns ErrStaleRevision otherwise. On success
	// the box's revision is incremented in place.
	UpdateBoxWithRevision(ctx context.Context, box *entity.Box, expectedRevision int64) error

	// DeleteBox removes a box record by its ID.
	DeleteBox(ctx context.Context, id uuid.UUID) error
}
