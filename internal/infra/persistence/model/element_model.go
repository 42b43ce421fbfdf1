// Package model contains the GORM table mappings for the persistence layer.
package model

import (
	"time"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ElementModel mirrors the 'elements' table. Kind-specific payloads and the
// geometry block are stored as JSONB; the relational columns are the ones
// queries filter on (box, card, owner).
type ElementModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	BoxID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	CardID      *uuid.UUID `gorm:"type:uuid;index"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index"`
	IsGuest     bool       `gorm:"not null"`

	Kind string `gorm:"type:varchar(16);not null"`
	Face string `gorm:"type:varchar(8);not null"`
	Role string `gorm:"type:varchar(24);not null"`

	Geometry datatypes.JSONType[entity.Geometry]   `gorm:"type:jsonb"`
	Text     datatypes.JSONType[entity.TextStyle]  `gorm:"type:jsonb"`
	Shape    datatypes.JSONType[entity.ShapeStyle] `gorm:"type:jsonb"`
	ImageURL string                                `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ElementModel) TableName() string {
	return "elements"
}
