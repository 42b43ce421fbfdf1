package model

import (
	"time"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BoxModel mirrors the 'boxes' table.
type BoxModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index"`
	IsGuest     bool       `gorm:"not null"`
	IsPublic    bool       `gorm:"not null;index"`

	CardTemplateID uuid.UUID `gorm:"type:uuid;not null"`

	DefaultCardWidthPx  int `gorm:"not null"`
	DefaultCardHeightPx int `gorm:"not null"`
	BoxWidthPx          int `gorm:"not null"`
	BoxHeightPx         int `gorm:"not null"`

	Design     datatypes.JSONType[entity.BoxDesign]          `gorm:"type:jsonb"`
	Generation datatypes.JSONType[entity.GenerationSettings] `gorm:"type:jsonb"`

	Revision int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BoxModel) TableName() string {
	return "boxes"
}
