package impl

import (
	"context"
	"testing"

	"deckbox/internal/domain/entity"
	"deckbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fixtures wires every service against one shared in-memory store, so a test
// can drive the full design graph through the real use case surface.
type fixtures struct {
	store     *memStore
	publisher *fakePublisher
	generator *fakeGenerator

	boxes     usecase.BoxUsecase
	cards     usecase.CardUsecase
	templates usecase.TemplateUsecase
	design    usecase.DesignUsecase
	users     usecase.UserUsecase
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	store := newMemStore()
	tx := &fakeTxManager{store: store}
	boxRepo := &fakeBoxRepo{store}
	cardRepo := &fakeCardRepo{store}
	elementRepo := &fakeElementRepo{store}
	templateRepo := &fakeTemplateRepo{store}
	publisher := &fakePublisher{}
	generator := &fakeGenerator{}
	logger := newDiscardLogger()

	return &fixtures{
		store:     store,
		publisher: publisher,
		generator: generator,
		boxes: NewBoxService(BoxServiceParams{
			TxManager:    tx,
			BoxRepo:      boxRepo,
			CardRepo:     cardRepo,
			ElementRepo:  elementRepo,
			TemplateRepo: templateRepo,
			Generator:    generator,
			Share:        &fakeShareService{},
			Logger:       logger,
		}),
		cards: NewCardService(CardServiceParams{
			TxManager:    tx,
			CardRepo:     cardRepo,
			BoxRepo:      boxRepo,
			TemplateRepo: templateRepo,
			ElementRepo:  elementRepo,
			Logger:       logger,
		}),
		templates: NewTemplateService(TemplateServiceParams{
			TxManager:    tx,
			TemplateRepo: templateRepo,
			BoxRepo:      boxRepo,
			ElementRepo:  elementRepo,
			Logger:       logger,
		}),
		design: NewDesignService(DesignServiceParams{
			TxManager:   tx,
			CardRepo:    cardRepo,
			ElementRepo: elementRepo,
			Publisher:   publisher,
			Logger:      logger,
		}),
		users: NewUserService(UserServiceParams{
			TxManager:    tx,
			UserRepo:     &fakeUserRepo{store},
			Hasher:       &fakeHasher{},
			TokenService: &fakeTokenService{},
			Logger:       logger,
		}),
	}
}

func strPtr(s string) *string { return &s }

// seedBox creates a box with one background element per template face and
// the given number of cards, all through the public use case surface.
func (f *fixtures) seedBox(t *testing.T, owner entity.Owner, numCards int) (*entity.Box, []*usecase.ResolvedCard) {
	t.Helper()
	ctx := context.Background()

	box, err := f.boxes.CreateBox(ctx, owner, &usecase.CreateBoxInput{Name: "Test box"})
	require.NoError(t, err)

	for _, face := range []entity.Face{entity.FaceFront, entity.FaceBack} {
		kind := entity.ElementKindShape
		role := entity.RoleBackground
		_, err := f.templates.AddTemplateElement(ctx, owner, box.CardTemplateID, &usecase.AddTemplateElementInput{
			Face: face,
			Element: &usecase.ElementInput{
				Kind:      &kind,
				Role:      &role,
				FillColor: strPtr("#223344"),
			},
		})
		require.NoError(t, err)
	}

	cards := make([]*usecase.ResolvedCard, 0, numCards)
	for i := 0; i < numCards; i++ {
		card, err := f.cards.CreateCardInBox(ctx, owner, box.ID, &usecase.CreateCardInput{
			Name: "Card " + string(rune('A'+i)),
		})
		require.NoError(t, err)
		cards = append(cards, card)
	}

	return box, cards
}

func (f *fixtures) seedUser(t *testing.T, email string) *entity.User {
	t.Helper()

	user := &entity.User{ID: uuid.New(), Email: email, Name: "Test User", PasswordHash: "x"}
	f.store.users[user.ID] = user

	return user
}

// assertGraphConsistent walks the whole store and fails on any dangling
// reference: ids listed by a card, template or box face must resolve, and a
// card-scoped element must be listed by a custom card.
func (f *fixtures) assertGraphConsistent(t *testing.T) {
	t.Helper()

	for _, card := range f.store.cards {
		require.Contains(t, f.store.boxes, card.BoxID, "card %s references missing box", card.ID)
		for _, id := range card.ElementIDs {
			require.Contains(t, f.store.elements, id, "card %s lists missing element %s", card.ID, id)
		}
	}

	for _, template := range f.store.templates {
		require.Contains(t, f.store.boxes, template.BoxID, "template %s references missing box", template.ID)
		for _, id := range template.AllElementIDs() {
			require.Contains(t, f.store.elements, id, "template %s lists missing element %s", template.ID, id)
		}
	}

	for _, box := range f.store.boxes {
		for _, face := range []entity.BoxFace{
			entity.BoxFaceFront, entity.BoxFaceBack, entity.BoxFaceTop,
			entity.BoxFaceBottom, entity.BoxFaceLeft, entity.BoxFaceRight,
		} {
			for _, id := range *box.Design.Face(face) {
				require.Contains(t, f.store.elements, id, "box %s lists missing element %s", box.ID, id)
			}
		}
	}

	for _, element := range f.store.elements {
		require.Contains(t, f.store.boxes, element.BoxID, "element %s references missing box", element.ID)
		if element.CardID == nil {
			continue
		}
		card, ok := f.store.cards[*element.CardID]
		require.True(t, ok, "element %s references missing card", element.ID)
		require.True(t, card.IsCustomDesign, "card-scoped element %s on a template-bound card", element.ID)
		require.True(t, card.HasElement(element.ID), "card-scoped element %s not listed by its card", element.ID)
	}
}
