package impl

import (
	"context"
	"testing"

	"deckbox/internal/domain/entity"
	domainerrors "deckbox/internal/domain/errors"
	"deckbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardService_CreateCardInBox(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 1)

	card, err := f.cards.CreateCardInBox(ctx, caller, box.ID, &usecase.CreateCardInput{Name: "Drake"})
	require.NoError(t, err)

	assert.Equal(t, "Drake", card.Card.Name)
	assert.Equal(t, 1, card.Card.OrderInBox)
	assert.False(t, card.Card.IsCustomDesign)
	assert.Equal(t, box.DefaultCardWidthPx, card.Card.WidthPx)
	assert.Equal(t, box.DefaultCardHeightPx, card.Card.HeightPx)

	// Every card is born with its private overlay shape and title text,
	// both card-independent until the card detaches.
	require.Len(t, card.Elements, 2)
	assert.Equal(t, entity.RoleOverlayShape, card.Elements[0].Role)
	assert.Equal(t, entity.RoleOverlayText, card.Elements[1].Role)
	for _, element := range card.Elements {
		assert.Nil(t, element.CardID)
		assert.Equal(t, box.ID, element.BoxID)
	}
	assert.Equal(t, "Drake", card.Elements[1].Text.Content)

	f.assertGraphConsistent(t)
}

func TestCardService_CreateCardInBox_CustomSize(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)

	card, err := f.cards.CreateCardInBox(ctx, caller, box.ID, &usecase.CreateCardInput{
		Name:     "Oversized",
		WidthPx:  500,
		HeightPx: 700,
	})
	require.NoError(t, err)
	assert.Equal(t, 500, card.Card.WidthPx)
	assert.Equal(t, 700, card.Card.HeightPx)
}

func TestCardService_CreateCardInBox_OrderSkipsDeletedSlots(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, cards := f.seedBox(t, caller, 2)

	err := f.cards.DeleteCard(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	// The next slot comes after the highest surviving order, never reusing
	// a freed one below it.
	card, err := f.cards.CreateCardInBox(ctx, caller, box.ID, &usecase.CreateCardInput{Name: "Late"})
	require.NoError(t, err)
	assert.Equal(t, 2, card.Card.OrderInBox)
	assert.NotEqual(t, cards[1].Card.OrderInBox, card.Card.OrderInBox)
}

func TestCardService_CreateCardInBox_ConcurrentCreateLosesWithConflict(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 1)
	cardsBefore := len(f.store.cards)
	elementsBefore := len(f.store.elements)

	// Interleave a competing write between the read and the commit.
	f.store.afterFindBox = func(store *memStore, id uuid.UUID) {
		store.afterFindBox = nil
		bumped := copyBox(store.boxes[id])
		bumped.Revision++
		store.boxes[id] = bumped
	}

	_, err := f.cards.CreateCardInBox(ctx, caller, box.ID, &usecase.CreateCardInput{Name: "Racer"})
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))

	// The losing transaction rolled back completely.
	assert.Len(t, f.store.cards, cardsBefore)
	assert.Len(t, f.store.elements, elementsBefore)
	f.assertGraphConsistent(t)
}

func TestCardService_CreateCardInBox_Forbidden(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	box, _ := f.seedBox(t, entity.UserOwner(uuid.New()), 0)

	_, err := f.cards.CreateCardInBox(ctx, entity.GuestOwner(), box.ID, &usecase.CreateCardInput{Name: "Nope"})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	_, err = f.cards.CreateCardInBox(ctx, entity.GuestOwner(), uuid.New(), &usecase.CreateCardInput{Name: "Nope"})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCardService_GetCard_TemplateBound(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, cards := f.seedBox(t, caller, 1)

	view, err := f.cards.GetCard(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	// The effective design of a template-bound card is the template's
	// faces plus the card's overlays.
	require.NotNil(t, view.Template)
	assert.Equal(t, box.CardTemplateID, view.Template.Template.ID)
	assert.Len(t, view.Template.FrontElements, 1)
	assert.Len(t, view.Template.BackElements, 1)
	assert.Len(t, view.Card.Elements, 2)
}

func TestCardService_GetCard_Custom(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	_, cards := f.seedBox(t, caller, 1)
	_, err := f.design.Detach(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	view, err := f.cards.GetCard(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	// A custom card inherits nothing.
	assert.Nil(t, view.Template)
	assert.True(t, view.Card.Card.IsCustomDesign)
	assert.Len(t, view.Card.Elements, 4)
}

func TestCardService_GetCard_PublicBoxReadable(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	owner := entity.UserOwner(uuid.New())
	box, cards := f.seedBox(t, owner, 1)

	_, err := f.cards.GetCard(ctx, entity.GuestOwner(), cards[0].Card.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	_, err = f.boxes.TogglePublic(ctx, owner, box.ID)
	require.NoError(t, err)

	view, err := f.cards.GetCard(ctx, entity.GuestOwner(), cards[0].Card.ID)
	require.NoError(t, err)
	assert.Equal(t, cards[0].Card.ID, view.Card.Card.ID)
}

func TestCardService_UpdateCard(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	_, cards := f.seedBox(t, caller, 1)

	updated, err := f.cards.UpdateCard(ctx, caller, cards[0].Card.ID, &usecase.UpdateCardInput{
		Name:     strPtr("Renamed"),
		Metadata: &entity.CardMetadata{TextPrompt: "a new prompt"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "a new prompt", updated.Metadata.TextPrompt)
	assert.False(t, updated.IsCustomDesign)
	assert.Equal(t, "Renamed", f.store.cards[cards[0].Card.ID].Name)
}

func TestCardService_DeleteCard(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, cards := f.seedBox(t, caller, 2)

	err := f.cards.DeleteCard(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	assert.NotContains(t, f.store.cards, cards[0].Card.ID)
	for _, element := range cards[0].Elements {
		assert.NotContains(t, f.store.elements, element.ID)
	}

	// The shared template and the sibling survive.
	assert.Len(t, f.store.templates[box.CardTemplateID].AllElementIDs(), 2)
	assert.Contains(t, f.store.cards, cards[1].Card.ID)
	f.assertGraphConsistent(t)
}

func TestCardService_DeleteCard_CustomDesign(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, cards := f.seedBox(t, caller, 1)
	detached, err := f.design.Detach(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	err = f.cards.DeleteCard(ctx, caller, cards[0].Card.ID)
	require.NoError(t, err)

	// The clones die with the card; the template design is untouched.
	for _, element := range detached.Elements {
		assert.NotContains(t, f.store.elements, element.ID)
	}
	assert.Len(t, f.store.templates[box.CardTemplateID].AllElementIDs(), 2)
	f.assertGraphConsistent(t)
}
