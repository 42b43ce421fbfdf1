// Package entity contains the core business objects of the project.
package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Owner is a tagged variant describing who owns a record: either an
// authenticated user or an anonymous guest. The zero value is a guest owner,
// which keeps "owner id is null iff guest" a structural guarantee instead of
// a runtime check over a boolean/nullable-id pair.
type Owner struct {
	userID uuid.UUID
	guest  bool
}

// GuestOwner returns the owner value for anonymously created content.
func GuestOwner() Owner {
	return Owner{guest: true}
}

// UserOwner returns the owner value for content owned by the given user.
func UserOwner(userID uuid.UUID) Owner {
	return Owner{userID: userID}
}

// OwnerFrom rebuilds an Owner from its persisted representation.
// A nil user id always yields a guest owner regardless of the flag, so a
// half-claimed row read back mid-migration can never present as user-owned.
func OwnerFrom(userID *uuid.UUID, guest bool) Owner {
	if userID == nil {
		return GuestOwner()
	}
	if guest {
		return GuestOwner()
	}

	return UserOwner(*userID)
}

// IsGuest reports whether the owner is an anonymous guest.
func (o Owner) IsGuest() bool {
	return o.guest || o.userID == uuid.Nil
}

// UserID returns the owning user id and true when the owner is a user.
func (o Owner) UserID() (uuid.UUID, bool) {
	if o.IsGuest() {
		return uuid.Nil, false
	}

	return o.userID, true
}

// UserIDPtr returns the owning user id as a pointer for persistence, nil for guests.
func (o Owner) UserIDPtr() *uuid.UUID {
	if o.IsGuest() {
		return nil
	}
	id := o.userID

	return &id
}

// Equal reports whether two owners are the same party.
func (o Owner) Equal(other Owner) bool {
	if o.IsGuest() || other.IsGuest() {
		return o.IsGuest() == other.IsGuest()
	}

	return o.userID == other.userID
}

// CanAccess reports whether a caller may mutate a record with this owner.
// Guest records are editable by anyone holding the box link, matching the
// guest-session model; user-owned records require the same user.
func (o Owner) CanAccess(caller Owner) bool {
	if o.IsGuest() {
		return true
	}
	callerID, ok := caller.UserID()
	if !ok {
		return false
	}

	return callerID == o.userID
}

type ownerJSON struct {
	UserID  *uuid.UUID `json:"user_id"`
	IsGuest bool       `json:"is_guest"`
}

// MarshalJSON renders the owner as {"user_id": ..., "is_guest": ...}.
func (o Owner) MarshalJSON() ([]byte, error) {
	return json.Marshal(ownerJSON{
		UserID:  o.UserIDPtr(),
		IsGuest: o.IsGuest(),
	})
}

// UnmarshalJSON parses the wire representation produced by MarshalJSON.
func (o *Owner) UnmarshalJSON(data []byte) error {
	var raw ownerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = OwnerFrom(raw.UserID, raw.IsGuest)

	return nil
}
