package model

import (
	"time"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CardModel mirrors the 'cards' table. The ordered element-id list is JSONB
// because its meaning (overlays vs full design) and ordering belong to the
// card, not to the elements table.
type CardModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	BoxID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index"`
	IsGuest     bool       `gorm:"not null"`

	Name       string `gorm:"type:varchar(200);not null"`
	OrderInBox int    `gorm:"not null"`
	WidthPx    int    `gorm:"not null"`
	HeightPx   int    `gorm:"not null"`

	IsCustomDesign bool                                    `gorm:"not null"`
	ElementIDs     datatypes.JSONSlice[uuid.UUID]          `gorm:"type:jsonb"`
	Metadata       datatypes.JSONType[entity.CardMetadata] `gorm:"type:jsonb"`

	Revision int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CardModel) TableName() string {
	return "cards"
}
