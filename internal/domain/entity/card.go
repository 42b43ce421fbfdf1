package entity

import (
	"time"

	"github.com/google/uuid"
)

// CardMetadata records how a generated card was produced.
type CardMetadata struct {
	FrontImagePrompt string `json:"front_image_prompt,omitempty"`
	TextPrompt       string `json:"text_prompt,omitempty"`
	FrontImageSource string `json:"front_image_source,omitempty"`
}

// Card is one printable unit inside a box.
//
// The meaning of ElementIDs depends on IsCustomDesign: a template-bound card
// lists only its unique overlay elements and renders as template + overlays,
// while a custom card lists its complete, self-sufficient element set.
type Card struct {
	ID    uuid.UUID `json:"id"`
	BoxID uuid.UUID `json:"box_id"`
	Owner Owner     `json:"owner"`

	Name       string `json:"name"`
	OrderInBox int    `json:"order_in_box"`
	WidthPx    int    `json:"width_px"`
	HeightPx   int    `json:"height_px"`

	IsCustomDesign bool        `json:"is_custom_design"`
	ElementIDs     []uuid.UUID `json:"element_ids"`

	Metadata CardMetadata `json:"metadata"`

	// Revision increments on every design mutation; engine operations use it
	// for optimistic conflict detection between concurrent edits.
	Revision int64 `json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasElement reports whether the card's element list contains the given id.
func (c *Card) HasElement(id uuid.UUID) bool {
	for _, elID := range c.ElementIDs {
		if elID == id {
			return true
		}
	}

	return false
}

// RemoveElement drops the given id from the card's element list.
func (c *Card) RemoveElement(id uuid.UUID) {
	kept := c.ElementIDs[:0]
	for _, elID := range c.ElementIDs {
		if elID != id {
			kept = append(kept, elID)
		}
	}
	c.ElementIDs = kept
}
