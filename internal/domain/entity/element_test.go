package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_IsOverlay(t *testing.T) {
	// Overlays are the per-card layers that stay with the card through
	// detach and promote; backgrounds and illustrations are shareable.
	assert.True(t, RoleOverlayShape.IsOverlay())
	assert.True(t, RoleOverlayText.IsOverlay())
	assert.True(t, RoleTitle.IsOverlay())
	assert.False(t, RoleBackground.IsOverlay())
	assert.False(t, RoleIllustration.IsOverlay())
}

func TestElementEnums_IsValid(t *testing.T) {
	assert.True(t, ElementKindImage.IsValid())
	assert.True(t, ElementKindText.IsValid())
	assert.True(t, ElementKindShape.IsValid())
	assert.False(t, ElementKind("video").IsValid())

	assert.True(t, FaceFront.IsValid())
	assert.True(t, FaceBack.IsValid())
	assert.False(t, Face("side").IsValid())

	assert.True(t, RoleBackground.IsValid())
	assert.False(t, Role("watermark").IsValid())
}

func TestElement_Clone(t *testing.T) {
	original := &Element{
		ID:    uuid.New(),
		BoxID: uuid.New(),
		Owner: GuestOwner(),
		Kind:  ElementKindText,
		Face:  FaceFront,
		Role:  RoleOverlayText,
		Geometry: Geometry{
			X: 10, Y: 20, Width: 100, Height: 40, ZIndex: 5, Opacity: 0.9,
		},
		Text: TextStyle{Content: "hello", FontFamily: "Cinzel"},
	}

	cardID := uuid.New()
	owner := UserOwner(uuid.New())
	clone := original.Clone(cardID, owner)

	assert.NotEqual(t, original.ID, clone.ID)
	require.NotNil(t, clone.CardID)
	assert.Equal(t, cardID, *clone.CardID)
	assert.True(t, clone.Owner.Equal(owner))
	assert.True(t, clone.CreatedAt.IsZero())

	// Everything visual carries over untouched.
	assert.Equal(t, original.BoxID, clone.BoxID)
	assert.Equal(t, original.Geometry, clone.Geometry)
	assert.Equal(t, original.Text, clone.Text)
	assert.Equal(t, original.Kind, clone.Kind)
	assert.Equal(t, original.Face, clone.Face)
	assert.Equal(t, original.Role, clone.Role)
}
