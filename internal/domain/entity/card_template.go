package entity

import (
	"time"

	"github.com/google/uuid"
)

// CardTemplate stores the shared visual design for all template-bound cards
// in a single box. Exactly one live template exists per box; its element
// lists are only ever replaced wholesale, by the promote operation.
type CardTemplate struct {
	ID    uuid.UUID `json:"id"`
	BoxID uuid.UUID `json:"box_id"`

	// OwnerUserID follows the box owner; templates have no guest flag of
	// their own, ownership transfers with the box on claim.
	OwnerUserID *uuid.UUID `json:"owner_user_id"`

	FrontElementIDs []uuid.UUID `json:"front_element_ids"`
	BackElementIDs  []uuid.UUID `json:"back_element_ids"`

	// Revision guards the wholesale list swaps: two concurrent promotes
	// against the same template produce one winner and one Conflict.
	Revision int64 `json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllElementIDs returns the front and back lists as one slice, front first.
func (t *CardTemplate) AllElementIDs() []uuid.UUID {
	all := make([]uuid.UUID, 0, len(t.FrontElementIDs)+len(t.BackElementIDs))
	all = append(all, t.FrontElementIDs...)
	all = append(all, t.BackElementIDs...)

	return all
}
