package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Guests have no User record at all;
// their content is identified by the guest owner variant until claimed.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
