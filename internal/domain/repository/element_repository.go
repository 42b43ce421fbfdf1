// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"deckbox/internal/domain/entity"
	"deckbox/internal/errors"

	"github.com/google/uuid"
)

// ErrElementNotFound is returned when an element is not found.
var ErrElementNotFound = errors.New("element not found")

// ElementRepository defines the interface for element-related database operations.
type ElementRepository interface {
	// CreateElement persists a new element.
	CreateElement(ctx context.Context, element *entity.Element) error

	// BatchCreateElements persists multiple elements in one statement,
	// used by deck generation and the detach clone step.
	BatchCreateElements(ctx context.Context, elements []*entity.Element) error

	// FindElementByID retrieves an element by its unique ID.
	FindElementByID(ctx context.Context, id uuid.UUID) (*entity.Element, error)

	// FindElementsByIDs retrieves the elements for the given ids. Results
	// follow the order of ids; ids with no matching element are skipped.
	FindElementsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Element, error)

	// FindElementsByBox retrieves every element under a box.
	FindElementsByBox(ctx context.Context, boxID uuid.UUID) ([]*entity.Element, error)

	// UpdateElement saves an existing element record.
	UpdateElement(ctx context.Context, element *entity.Element) error

	// DeleteElement removes an element by its ID.
	DeleteElement(ctx context.Context, id uuid.UUID) error

	// DeleteElementsByIDs removes all elements with the given ids.
	DeleteElementsByIDs(ctx context.Context, ids []uuid.UUID) error

	// DeleteElementsByBox removes every element under a box.
	DeleteElementsByBox(ctx context.Context, boxID uuid.UUID) error

	// TransferGuestElements re-owns all guest elements under a box to the
	// given user. Keyed by box id only, safe to re-run on claim retries.
	TransferGuestElements(ctx context.Context, boxID, userID uuid.UUID) error
}
