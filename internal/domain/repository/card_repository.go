// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"deckbox/internal/domain/entity"
	"deckbox/internal/errors"

	"github.com/google/uuid"
)

// ErrCardNotFound is returned when a card is not found.
var ErrCardNotFound = errors.New("card not found")

// CardRepository defines the interface for card-related database operations.
type CardRepository interface {
	// CreateCard persists a new card.
	CreateCard(ctx context.Context, card *entity.Card) error

	// FindCardByID retrieves a card by its unique ID.
	FindCardByID(ctx context.Context, id uuid.UUID) (*entity.Card, error)

	// FindCardsByBox retrieves all cards of a box ordered by their sequence index.
	FindCardsByBox(ctx context.Context, boxID uuid.UUID) ([]*entity.Card, error)

	// UpdateCard saves the card and bumps its revision unconditionally.
	UpdateCard(ctx context.Context, card *entity.Card) error

	// UpdateCardWithRevision saves the card only if its stored revision still
	// equals expectedRevision; returns ErrStaleRevision otherwise. On success
	// the card's revision is incremented in place. This is the optimistic
	// lock the detach/promote sequences rely on.
	UpdateCardWithRevision(ctx context.Context, card *entity.Card, expectedRevision int64) error

	// DeleteCard removes a card record by its ID.
	DeleteCard(ctx context.Context, id uuid.UUID) error

	// DeleteCardsByBox removes every card belonging to a box.
	DeleteCardsByBox(ctx context.Context, boxID uuid.UUID) error

	// TransferGuestCards re-owns all guest cards under a box to the given
	// user. Keyed by box id only, so it is safe to re-run on claim retries.
	TransferGuestCards(ctx context.Context, boxID, userID uuid.UUID) error
}
