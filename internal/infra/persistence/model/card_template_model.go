package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CardTemplateModel mirrors the 'card_templates' table. The unique index on
// box_id enforces one live template per box at the storage level.
type CardTemplateModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	BoxID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index"`

	FrontElementIDs datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb"`
	BackElementIDs  datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb"`

	Revision int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CardTemplateModel) TableName() string {
	return "card_templates"
}
