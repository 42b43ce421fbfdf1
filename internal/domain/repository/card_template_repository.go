// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"deckbox/internal/domain/entity"
	"deckbox/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for card template persistence.
var (
	// ErrTemplateNotFound is returned when a card template is not found.
	ErrTemplateNotFound = errors.New("card template not found")
	// ErrDuplicateTemplate is returned when a box already has a template.
	ErrDuplicateTemplate = errors.New("box already has a card template")
	// ErrForeignTemplateElement is returned when a template list swap names
	// an element that does not exist or belongs to another box.
	ErrForeignTemplateElement = errors.New("element does not belong to the template's box")
)

// CardTemplateRepository defines the interface for card template database operations.
type CardTemplateRepository interface {
	// CreateTemplate persists a new template. The unique index on box id
	// enforces the one-template-per-box invariant; a second insert for the
	// same box returns ErrDuplicateTemplate.
	CreateTemplate(ctx context.Context, template *entity.CardTemplate) error

	// FindTemplateByID retrieves a template by its unique ID.
	FindTemplateByID(ctx context.Context, id uuid.UUID) (*entity.CardTemplate, error)

	// FindTemplateByBox retrieves the template of a box.
	FindTemplateByBox(ctx context.Context, boxID uuid.UUID) (*entity.CardTemplate, error)

	// ReplaceTemplateElements atomically swaps both element lists of a
	// template, but only if its stored revision still equals
	// expectedRevision; returns ErrStaleRevision otherwise. Every id must
	// reference an element in the template's box, a foreign or unknown id
	// rejects the whole swap with ErrForeignTemplateElement and writes
	// nothing.
	ReplaceTemplateElements(ctx context.Context, templateID uuid.UUID, frontIDs, backIDs []uuid.UUID, expectedRevision int64) error

	// TransferTemplateOwner sets the owning user for the template of a box.
	// Keyed by box id only, safe to re-run on claim retries.
	TransferTemplateOwner(ctx context.Context, boxID, userID uuid.UUID) error

	// DeleteTemplateByBox removes the template of a box.
	DeleteTemplateByBox(ctx context.Context, boxID uuid.UUID) error
}
