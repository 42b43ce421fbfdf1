package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxFace_IsValid(t *testing.T) {
	for _, face := range []BoxFace{BoxFaceFront, BoxFaceBack, BoxFaceTop, BoxFaceBottom, BoxFaceLeft, BoxFaceRight} {
		assert.True(t, face.IsValid())
	}
	assert.False(t, BoxFace("lid").IsValid())
	assert.False(t, BoxFace("").IsValid())
}

func TestBoxDesign_Face(t *testing.T) {
	design := &BoxDesign{}
	id := uuid.New()

	ids := design.Face(BoxFaceTop)
	require.NotNil(t, ids)
	*ids = append(*ids, id)

	assert.Equal(t, []uuid.UUID{id}, design.TopElementIDs)
	assert.Nil(t, design.Face(BoxFace("lid")))
}

func TestBoxDesign_RemoveElement(t *testing.T) {
	target := uuid.New()
	keptFront := uuid.New()
	keptLeft := uuid.New()

	design := &BoxDesign{
		FrontElementIDs: []uuid.UUID{keptFront, target},
		LeftElementIDs:  []uuid.UUID{target, keptLeft},
	}

	design.RemoveElement(target)

	assert.Equal(t, []uuid.UUID{keptFront}, design.FrontElementIDs)
	assert.Equal(t, []uuid.UUID{keptLeft}, design.LeftElementIDs)
	assert.Empty(t, design.BackElementIDs)
}

func TestBoxDimensionsFor(t *testing.T) {
	w, h := BoxDimensionsFor(DefaultCardWidthPx, DefaultCardHeightPx)

	// The box is 5% oversize with rounding to the nearest pixel.
	assert.Equal(t, 331, w)
	assert.Equal(t, 462, h)

	w, h = BoxDimensionsFor(100, 200)
	assert.Equal(t, 105, w)
	assert.Equal(t, 210, h)
}

func TestCard_ElementList(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	card := &Card{ElementIDs: []uuid.UUID{first, second}}

	assert.True(t, card.HasElement(first))
	assert.False(t, card.HasElement(uuid.New()))

	card.RemoveElement(first)
	assert.Equal(t, []uuid.UUID{second}, card.ElementIDs)
	assert.False(t, card.HasElement(first))
}
