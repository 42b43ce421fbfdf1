package usecase

import (
	"context"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
)

// DesignUsecase defines the design-inheritance engine: the only interface
// through which card design state transitions and card element mutations
// happen. Routing every card element write through here is what lets a write
// against a template-bound card trigger detachment atomically.
type DesignUsecase interface {
	// Detach converts a template-bound card into a custom one by cloning
	// the template's faces plus the card's private elements onto the card.
	Detach(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*ResolvedCard, error)

	// Promote replaces the box template's design with a custom card's
	// elements and reverts the card to template-bound. Overlay elements
	// stay personal to the card; everything else moves to the template.
	Promote(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*ResolvedTemplate, error)

	// Claim transfers a guest box and everything under it to a user.
	// Claiming a box already owned by the same user is a no-op.
	Claim(ctx context.Context, boxID, userID uuid.UUID) (*entity.Box, error)

	// AddElementToCard adds an element to a card, detaching the card first
	// when it is still template-bound. Both happen in one transaction.
	AddElementToCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID, input *ElementInput) (*ResolvedCard, error)

	// UpdateCardElement patches a card element, detaching first if needed.
	// For a freshly detached card the patch lands on the clone, never on
	// the shared template element.
	UpdateCardElement(ctx context.Context, caller entity.Owner, cardID, elementID uuid.UUID, patch *ElementInput) (*ResolvedCard, error)

	// DeleteCardElement removes an element from a card, detaching first if
	// needed.
	DeleteCardElement(ctx context.Context, caller entity.Owner, cardID, elementID uuid.UUID) (*ResolvedCard, error)
}
