package usecase

import (
	"context"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCardInput is the payload for adding a card to a box.
type CreateCardInput struct {
	Name     string               `json:"name" validate:"required,max=200"`
	WidthPx  int                  `json:"width_px" validate:"omitempty,gt=0"`
	HeightPx int                  `json:"height_px" validate:"omitempty,gt=0"`
	Metadata *entity.CardMetadata `json:"metadata"`
}

// UpdateCardInput patches card metadata. Design state is untouched; element
// edits flow through DesignUsecase.
type UpdateCardInput struct {
	Name     *string              `json:"name" validate:"omitempty,max=200"`
	Metadata *entity.CardMetadata `json:"metadata"`
}

// CardUsecase defines the interface for card management use cases.
type CardUsecase interface {
	// CreateCardInBox appends a template-bound card to the box, seeding it
	// with its private overlay shape and title elements.
	CreateCardInBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID, input *CreateCardInput) (*ResolvedCard, error)

	// GetCard retrieves a card with its effective design resolved: the
	// template's faces for a template-bound card, the card's own element
	// list for a detached one.
	GetCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*CardDesignView, error)

	// UpdateCard patches card name and metadata.
	UpdateCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID, input *UpdateCardInput) (*entity.Card, error)

	// DeleteCard deletes a card together with its card-scoped elements.
	DeleteCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID) error
}
