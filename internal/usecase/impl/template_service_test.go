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

func TestTemplateService_GetTemplate(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)

	resolved, err := f.templates.GetTemplate(ctx, caller, box.CardTemplateID)
	require.NoError(t, err)
	assert.Equal(t, box.CardTemplateID, resolved.Template.ID)
	assert.Len(t, resolved.FrontElements, 1)
	assert.Len(t, resolved.BackElements, 1)

	_, err = f.templates.GetTemplate(ctx, caller, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestTemplateService_GetTemplate_Visibility(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	owner := entity.UserOwner(uuid.New())
	box, _ := f.seedBox(t, owner, 0)

	// The template of a private box reads as absent for everyone else.
	_, err := f.templates.GetTemplate(ctx, entity.GuestOwner(), box.CardTemplateID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	_, err = f.boxes.TogglePublic(ctx, owner, box.ID)
	require.NoError(t, err)

	_, err = f.templates.GetTemplate(ctx, entity.GuestOwner(), box.CardTemplateID)
	assert.NoError(t, err)
}

func TestTemplateService_GetTemplateForBox(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)

	resolved, err := f.templates.GetTemplateForBox(ctx, caller, box.ID)
	require.NoError(t, err)
	assert.Equal(t, box.CardTemplateID, resolved.Template.ID)

	_, err = f.templates.GetTemplateForBox(ctx, caller, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestTemplateService_AddTemplateElement(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)

	kind := entity.ElementKindText
	element, err := f.templates.AddTemplateElement(ctx, caller, box.CardTemplateID, &usecase.AddTemplateElementInput{
		Face:    entity.FaceBack,
		Element: &usecase.ElementInput{Kind: &kind, Content: strPtr("shared back text")},
	})
	require.NoError(t, err)

	// The wrapper's face wins over anything inside the element payload.
	assert.Equal(t, entity.FaceBack, element.Face)
	assert.Nil(t, element.CardID)
	assert.Equal(t, box.ID, element.BoxID)

	template := f.store.templates[box.CardTemplateID]
	assert.Len(t, template.BackElementIDs, 2)
	assert.Equal(t, element.ID, template.BackElementIDs[1])
	f.assertGraphConsistent(t)
}

func TestTemplateService_AddTemplateElement_Forbidden(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	box, _ := f.seedBox(t, entity.UserOwner(uuid.New()), 0)

	kind := entity.ElementKindShape
	_, err := f.templates.AddTemplateElement(ctx, entity.UserOwner(uuid.New()), box.CardTemplateID, &usecase.AddTemplateElementInput{
		Face:    entity.FaceFront,
		Element: &usecase.ElementInput{Kind: &kind},
	})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestTemplateService_UpdateTemplateElement(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)
	elementID := f.store.templates[box.CardTemplateID].FrontElementIDs[0]

	patched, err := f.templates.UpdateTemplateElement(ctx, caller, box.CardTemplateID, elementID, &usecase.ElementInput{
		FillColor: strPtr("#654321"),
	})
	require.NoError(t, err)
	assert.Equal(t, "#654321", patched.Shape.FillColor)
	assert.Equal(t, "#654321", f.store.elements[elementID].Shape.FillColor)
}

func TestTemplateService_UpdateTemplateElement_NotOnTemplate(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, cards := f.seedBox(t, caller, 1)

	// A card overlay is not addressable through the template surface.
	_, err := f.templates.UpdateTemplateElement(ctx, caller, box.CardTemplateID, cards[0].Elements[0].ID, &usecase.ElementInput{
		FillColor: strPtr("#654321"),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestTemplateService_DeleteTemplateElement(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)
	elementID := f.store.templates[box.CardTemplateID].BackElementIDs[0]

	err := f.templates.DeleteTemplateElement(ctx, caller, box.CardTemplateID, elementID)
	require.NoError(t, err)

	template := f.store.templates[box.CardTemplateID]
	assert.Empty(t, template.BackElementIDs)
	assert.Len(t, template.FrontElementIDs, 1)
	assert.NotContains(t, f.store.elements, elementID)
	f.assertGraphConsistent(t)
}

func TestTemplateService_ReplaceRejectsForeignBoxElement(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	caller := entity.GuestOwner()

	box, _ := f.seedBox(t, caller, 0)
	other, _ := f.seedBox(t, caller, 0)

	before := copyTemplate(f.store.templates[box.CardTemplateID])
	foreign := f.store.templates[other.CardTemplateID].FrontElementIDs[0]

	repo := &fakeTemplateRepo{f.store}
	err := swapTemplateElements(ctx, repo, copyTemplate(before),
		append(copyIDs(before.FrontElementIDs), foreign), before.BackElementIDs)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	// Unknown ids are rejected the same way.
	err = swapTemplateElements(ctx, repo, copyTemplate(before), []uuid.UUID{uuid.New()}, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	// No partial write in either case.
	template := f.store.templates[box.CardTemplateID]
	assert.Equal(t, before.AllElementIDs(), template.AllElementIDs())
	assert.Equal(t, before.Revision, template.Revision)
}
