package usecase

import (
	"context"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateBoxInput is the payload for creating an empty box.
type CreateBoxInput struct {
	Name                string `json:"name" validate:"required,max=200"`
	Description         string `json:"description" validate:"max=2000"`
	DefaultCardWidthPx  int    `json:"default_card_width_px" validate:"omitempty,gt=0"`
	DefaultCardHeightPx int    `json:"default_card_height_px" validate:"omitempty,gt=0"`
}

// UpdateBoxInput is the payload for updating box metadata. Ownership and
// visibility are excluded; they change only through claim and toggle-public.
type UpdateBoxInput struct {
	Name                *string `json:"name" validate:"omitempty,max=200"`
	Description         *string `json:"description" validate:"omitempty,max=2000"`
	DefaultCardWidthPx  *int    `json:"default_card_width_px" validate:"omitempty,gt=0"`
	DefaultCardHeightPx *int    `json:"default_card_height_px" validate:"omitempty,gt=0"`
}

// GenerateDeckInput is the payload for the full deck generation flow.
type GenerateDeckInput struct {
	Prompt              string `json:"prompt" validate:"required,max=4000"`
	BoxName             string `json:"box_name" validate:"max=200"`
	BoxDescription      string `json:"box_description" validate:"max=2000"`
	Genre               string `json:"genre" validate:"max=100"`
	NumCards            int    `json:"num_cards" validate:"omitempty,gte=1,lte=100"`
	GenerateBoxDesign   bool   `json:"generate_box_design"`
	IncludeCharacterArt bool   `json:"include_character_art"`
	CardWidthPx         int    `json:"card_width_px" validate:"omitempty,gt=0"`
	CardHeightPx        int    `json:"card_height_px" validate:"omitempty,gt=0"`
	CardColorTheme      string `json:"card_color_theme" validate:"max=50"`
}

// GenerateDeckResult carries the assembled box plus non-fatal provider
// warnings: a missing illustration degrades the result, it does not fail it.
type GenerateDeckResult struct {
	BoxView
	Warnings []string `json:"warnings,omitempty"`
}

// BoxUsecase defines the interface for box management use cases.
type BoxUsecase interface {
	// CreateBox creates an empty box with its card template.
	CreateBox(ctx context.Context, caller entity.Owner, input *CreateBoxInput) (*entity.Box, error)

	// GenerateDeck assembles a complete box: template artwork, n cards with
	// generated text, and optionally the six-face packaging design.
	GenerateDeck(ctx context.Context, caller entity.Owner, input *GenerateDeckInput) (*GenerateDeckResult, error)

	// GetBox retrieves a fully resolved box visible to the caller.
	GetBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID) (*BoxView, error)

	// ListBoxesForUser retrieves all fully resolved boxes owned by a user.
	ListBoxesForUser(ctx context.Context, userID uuid.UUID) ([]*BoxView, error)

	// GetPublicBox retrieves a box regardless of caller, if it is public.
	GetPublicBox(ctx context.Context, boxID uuid.UUID) (*BoxView, error)

	// UpdateBox updates box metadata.
	UpdateBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID, input *UpdateBoxInput) (*entity.Box, error)

	// DeleteBox deletes a box, cascading to its cards, elements and template.
	DeleteBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID) error

	// TogglePublic flips the public flag and, when turning public, returns
	// the share URL and its QR code.
	TogglePublic(ctx context.Context, caller entity.Owner, boxID uuid.UUID) (*ShareStatus, error)

	// AddBoxElement adds an element to one of the six packaging faces.
	AddBoxElement(ctx context.Context, caller entity.Owner, boxID uuid.UUID, face entity.BoxFace, input *ElementInput) (*entity.Element, error)

	// UpdateBoxElement patches a packaging element in place.
	UpdateBoxElement(ctx context.Context, caller entity.Owner, elementID uuid.UUID, patch *ElementInput) (*entity.Element, error)

	// DeleteBoxElement removes a packaging element from whichever face holds it.
	DeleteBoxElement(ctx context.Context, caller entity.Owner, boxID, elementID uuid.UUID) error
}
