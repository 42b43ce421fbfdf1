// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ElementKind identifies the payload carried by an element.
type ElementKind string

const (
	// ElementKindImage is a positioned raster image.
	ElementKindImage ElementKind = "image"
	// ElementKindText is a styled text block.
	ElementKindText ElementKind = "text"
	// ElementKindShape is a filled vector primitive.
	ElementKindShape ElementKind = "shape"
)

// IsValid checks if the ElementKind is a valid value.
func (k ElementKind) IsValid() bool {
	switch k {
	case ElementKindImage, ElementKindText, ElementKindShape:
		return true
	default:
		return false
	}
}

// Face indicates which side of a card an element is rendered on.
type Face string

const (
	// FaceFront renders on the front of the card.
	FaceFront Face = "front"
	// FaceBack renders on the back of the card.
	FaceBack Face = "back"
)

// IsValid checks if the Face is a valid value.
func (f Face) IsValid() bool {
	return f == FaceFront || f == FaceBack
}

// Role names the layer an element occupies in a card design. It replaces the
// legacy reserved z-index bands: the overlay roles are the per-card unique
// layers that survive a promote, everything else is shared template material.
type Role string

const (
	// RoleBackground is the full-bleed background layer.
	RoleBackground Role = "background"
	// RoleIllustration is the main artwork layer.
	RoleIllustration Role = "illustration"
	// RoleOverlayShape is the per-card backing shape behind the card text.
	RoleOverlayShape Role = "overlayShape"
	// RoleOverlayText is the per-card text content.
	RoleOverlayText Role = "overlayText"
	// RoleTitle is the per-card title layer.
	RoleTitle Role = "title"
)

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleBackground, RoleIllustration, RoleOverlayShape, RoleOverlayText, RoleTitle:
		return true
	default:
		return false
	}
}

// IsOverlay reports whether the role is per-card unique content, i.e. the
// subset a card keeps for itself when its design is promoted to the template.
func (r Role) IsOverlay() bool {
	switch r {
	case RoleOverlayShape, RoleOverlayText, RoleTitle:
		return true
	default:
		return false
	}
}

// ShapeType enumerates the supported shape primitives.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeTriangle  ShapeType = "triangle"
)

// IsValid checks if the ShapeType is a valid value.
func (s ShapeType) IsValid() bool {
	switch s {
	case ShapeRectangle, ShapeCircle, ShapeTriangle:
		return true
	default:
		return false
	}
}

// Geometry holds the position and transform shared by every element kind.
type Geometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"z_index"`
	Opacity  float64 `json:"opacity"`
}

// TextStyle holds the text-kind payload.
type TextStyle struct {
	Content    string `json:"content"`
	FontSize   string `json:"font_size"`
	FontFamily string `json:"font_family"`
	Color      string `json:"color"`
	TextAlign  string `json:"text_align"`
	FontWeight string `json:"font_weight"`
}

// ShapeStyle holds the shape-kind payload.
type ShapeStyle struct {
	ShapeType    ShapeType `json:"shape_type"`
	FillColor    string    `json:"fill_color"`
	BorderRadius float64   `json:"border_radius"`
}

// Element is the atomic visual primitive every design is composed of.
// An element always belongs to a box; it belongs to a card only when that
// card carries a custom design, otherwise it is template- or box-level.
type Element struct {
	ID     uuid.UUID  `json:"id"`
	BoxID  uuid.UUID  `json:"box_id"`
	CardID *uuid.UUID `json:"card_id"` // nil means template- or box-level
	Owner  Owner      `json:"owner"`

	Kind ElementKind `json:"kind"`
	Face Face        `json:"face"`
	Role Role        `json:"role"`

	Geometry Geometry `json:"geometry"`

	ImageURL string     `json:"image_url,omitempty"`
	Text     TextStyle  `json:"text,omitempty"`
	Shape    ShapeStyle `json:"shape,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of the element with a fresh id, reassigned to the
// given card and owner. Used by the detach operation; timestamps are reset
// by the persistence layer on insert.
func (e *Element) Clone(cardID uuid.UUID, owner Owner) *Element {
	clone := *e
	clone.ID = uuid.New()
	clone.CardID = &cardID
	clone.Owner = owner
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	return &clone
}
