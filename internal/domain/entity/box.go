package entity

import (
	"time"

	"github.com/google/uuid"
)

// BoxFace names one of the six printable faces of the physical box.
type BoxFace string

const (
	BoxFaceFront  BoxFace = "front"
	BoxFaceBack   BoxFace = "back"
	BoxFaceTop    BoxFace = "top"
	BoxFaceBottom BoxFace = "bottom"
	BoxFaceLeft   BoxFace = "left"
	BoxFaceRight  BoxFace = "right"
)

// IsValid checks if the BoxFace is a valid value.
func (f BoxFace) IsValid() bool {
	switch f {
	case BoxFaceFront, BoxFaceBack, BoxFaceTop, BoxFaceBottom, BoxFaceLeft, BoxFaceRight:
		return true
	default:
		return false
	}
}

// BoxDesign holds the element-id lists for the six faces of the packaging.
type BoxDesign struct {
	FrontElementIDs  []uuid.UUID `json:"front_element_ids"`
	BackElementIDs   []uuid.UUID `json:"back_element_ids"`
	TopElementIDs    []uuid.UUID `json:"top_element_ids"`
	BottomElementIDs []uuid.UUID `json:"bottom_element_ids"`
	LeftElementIDs   []uuid.UUID `json:"left_element_ids"`
	RightElementIDs  []uuid.UUID `json:"right_element_ids"`
}

// Face returns a pointer to the id list for the given face.
func (d *BoxDesign) Face(face BoxFace) *[]uuid.UUID {
	switch face {
	case BoxFaceFront:
		return &d.FrontElementIDs
	case BoxFaceBack:
		return &d.BackElementIDs
	case BoxFaceTop:
		return &d.TopElementIDs
	case BoxFaceBottom:
		return &d.BottomElementIDs
	case BoxFaceLeft:
		return &d.LeftElementIDs
	case BoxFaceRight:
		return &d.RightElementIDs
	default:
		return nil
	}
}

// RemoveElement drops the given element id from every face list.
func (d *BoxDesign) RemoveElement(id uuid.UUID) {
	for _, face := range []BoxFace{BoxFaceFront, BoxFaceBack, BoxFaceTop, BoxFaceBottom, BoxFaceLeft, BoxFaceRight} {
		ids := d.Face(face)
		kept := (*ids)[:0]
		for _, elID := range *ids {
			if elID != id {
				kept = append(kept, elID)
			}
		}
		*ids = kept
	}
}

// GenerationSettings records the prompt parameters a box was generated with,
// so a deck can be re-generated or extended in the same style.
type GenerationSettings struct {
	UserPrompt     string `json:"user_prompt,omitempty"`
	Genre          string `json:"genre,omitempty"`
	CardColorTheme string `json:"card_color_theme,omitempty"`
	FontFamily     string `json:"font_family,omitempty"`
}

// Box is the aggregate root for one game project: its deck of cards, the
// shared card template and the packaging design.
type Box struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       Owner     `json:"owner"`
	IsPublic    bool      `json:"is_public"`

	CardTemplateID uuid.UUID `json:"card_template_id"`

	DefaultCardWidthPx  int `json:"default_card_width_px"`
	DefaultCardHeightPx int `json:"default_card_height_px"`
	BoxWidthPx          int `json:"box_width_px"`
	BoxHeightPx         int `json:"box_height_px"`

	Design BoxDesign `json:"design"`

	Generation GenerationSettings `json:"generation,omitempty"`

	// Revision increments on every mutation touching the box record; the
	// claim and packaging operations use it for optimistic conflict checks.
	Revision int64 `json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// DefaultCardWidthPx is the card width used when a box doesn't specify one.
	DefaultCardWidthPx = 315
	// DefaultCardHeightPx is the card height used when a box doesn't specify one.
	DefaultCardHeightPx = 440
	// boxOversizeFactor is how much larger than its cards the physical box is.
	boxOversizeFactor = 1.05
)

// BoxDimensionsFor derives the physical box size from the card size.
func BoxDimensionsFor(cardWidthPx, cardHeightPx int) (widthPx, heightPx int) {
	widthPx = int(float64(cardWidthPx)*boxOversizeFactor + 0.5)
	heightPx = int(float64(cardHeightPx)*boxOversizeFactor + 0.5)

	return widthPx, heightPx
}
