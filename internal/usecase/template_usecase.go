package usecase

import (
	"context"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
)

// AddTemplateElementInput wraps an element payload with the face it lands on.
type AddTemplateElementInput struct {
	Face    entity.Face   `json:"face" validate:"required,oneof=front back"`
	Element *ElementInput `json:"element" validate:"required"`
}

// TemplateUsecase defines the interface for shared card template use cases.
// Template edits are immediately visible on every template-bound card in the
// box; custom cards are unaffected.
type TemplateUsecase interface {
	// GetTemplate retrieves a template with both faces resolved.
	GetTemplate(ctx context.Context, caller entity.Owner, templateID uuid.UUID) (*ResolvedTemplate, error)

	// GetTemplateForBox retrieves the box's template with both faces resolved.
	GetTemplateForBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID) (*ResolvedTemplate, error)

	// AddTemplateElement appends an element to one of the template's faces.
	AddTemplateElement(ctx context.Context, caller entity.Owner, templateID uuid.UUID, input *AddTemplateElementInput) (*entity.Element, error)

	// UpdateTemplateElement patches a template element in place.
	UpdateTemplateElement(ctx context.Context, caller entity.Owner, templateID, elementID uuid.UUID, patch *ElementInput) (*entity.Element, error)

	// DeleteTemplateElement removes an element from whichever face holds it.
	DeleteTemplateElement(ctx context.Context, caller entity.Owner, templateID, elementID uuid.UUID) error
}
