package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"deckbox/internal/domain/entity"
	"deckbox/internal/domain/repository"
	"deckbox/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is the shared backing state for the in-memory repositories. The
// repositories never mutate a stored value in place, they always replace it
// with a copy, which is what makes the transaction snapshot trivial.
type memStore struct {
	boxes     map[uuid.UUID]*entity.Box
	cards     map[uuid.UUID]*entity.Card
	elements  map[uuid.UUID]*entity.Element
	templates map[uuid.UUID]*entity.CardTemplate
	users     map[uuid.UUID]*entity.User

	// afterFindCard runs after every FindCardByID, letting a test interleave
	// a concurrent write between a service's read and its revision-checked
	// commit. afterFindBox and afterFindTemplateByBox do the same for the
	// box and template reads.
	afterFindCard          func(store *memStore, id uuid.UUID)
	afterFindBox           func(store *memStore, id uuid.UUID)
	afterFindTemplateByBox func(store *memStore, boxID uuid.UUID)
}

func newMemStore() *memStore {
	return &memStore{
		boxes:     make(map[uuid.UUID]*entity.Box),
		cards:     make(map[uuid.UUID]*entity.Card),
		elements:  make(map[uuid.UUID]*entity.Element),
		templates: make(map[uuid.UUID]*entity.CardTemplate),
		users:     make(map[uuid.UUID]*entity.User),
	}
}

func (s *memStore) snapshot() *memStore {
	copied := newMemStore()
	for id, box := range s.boxes {
		copied.boxes[id] = box
	}
	for id, card := range s.cards {
		copied.cards[id] = card
	}
	for id, element := range s.elements {
		copied.elements[id] = element
	}
	for id, template := range s.templates {
		copied.templates[id] = template
	}
	for id, user := range s.users {
		copied.users[id] = user
	}

	return copied
}

func (s *memStore) restore(snap *memStore) {
	s.boxes = snap.boxes
	s.cards = snap.cards
	s.elements = snap.elements
	s.templates = snap.templates
	s.users = snap.users
}

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}

	return append([]uuid.UUID(nil), ids...)
}

func copyBox(b *entity.Box) *entity.Box {
	cp := *b
	cp.Design.FrontElementIDs = copyIDs(b.Design.FrontElementIDs)
	cp.Design.BackElementIDs = copyIDs(b.Design.BackElementIDs)
	cp.Design.TopElementIDs = copyIDs(b.Design.TopElementIDs)
	cp.Design.BottomElementIDs = copyIDs(b.Design.BottomElementIDs)
	cp.Design.LeftElementIDs = copyIDs(b.Design.LeftElementIDs)
	cp.Design.RightElementIDs = copyIDs(b.Design.RightElementIDs)

	return &cp
}

func copyCard(c *entity.Card) *entity.Card {
	cp := *c
	cp.ElementIDs = copyIDs(c.ElementIDs)

	return &cp
}

func copyElement(e *entity.Element) *entity.Element {
	cp := *e
	if e.CardID != nil {
		cardID := *e.CardID
		cp.CardID = &cardID
	}

	return &cp
}

func copyTemplate(t *entity.CardTemplate) *entity.CardTemplate {
	cp := *t
	cp.FrontElementIDs = copyIDs(t.FrontElementIDs)
	cp.BackElementIDs = copyIDs(t.BackElementIDs)

	return &cp
}

func copyUser(u *entity.User) *entity.User {
	cp := *u

	return &cp
}

// fakeTxManager runs the body against the shared store and rolls the store
// back to its pre-transaction state when the body fails.
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	snap := m.store.snapshot()
	if err := fn(&fakeRepoFactory{store: m.store}); err != nil {
		m.store.restore(snap)

		return err
	}

	return nil
}

type fakeRepoFactory struct {
	store *memStore
}

func (f *fakeRepoFactory) BoxRepo() repository.BoxRepository              { return &fakeBoxRepo{f.store} }
func (f *fakeRepoFactory) CardRepo() repository.CardRepository            { return &fakeCardRepo{f.store} }
func (f *fakeRepoFactory) ElementRepo() repository.ElementRepository      { return &fakeElementRepo{f.store} }
func (f *fakeRepoFactory) TemplateRepo() repository.CardTemplateRepository {
	return &fakeTemplateRepo{f.store}
}
func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{f.store} }

type fakeBoxRepo struct{ store *memStore }

func (r *fakeBoxRepo) CreateBox(_ context.Context, box *entity.Box) error {
	r.store.boxes[box.ID] = copyBox(box)

	return nil
}

func (r *fakeBoxRepo) FindBoxByID(_ context.Context, id uuid.UUID) (*entity.Box, error) {
	box, ok := r.store.boxes[id]
	if !ok {
		return nil, repository.ErrBoxNotFound
	}
	found := copyBox(box)
	if r.store.afterFindBox != nil {
		r.store.afterFindBox(r.store, id)
	}

	return found, nil
}

func (r *fakeBoxRepo) FindBoxesByUser(_ context.Context, userID uuid.UUID) ([]*entity.Box, error) {
	var boxes []*entity.Box
	for _, box := range r.store.boxes {
		if ownerID, ok := box.Owner.UserID(); ok && ownerID == userID {
			boxes = append(boxes, copyBox(box))
		}
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].UpdatedAt.After(boxes[j].UpdatedAt) })

	return boxes, nil
}

func (r *fakeBoxRepo) FindPublicBoxByID(_ context.Context, id uuid.UUID) (*entity.Box, error) {
	box, ok := r.store.boxes[id]
	if !ok || !box.IsPublic {
		return nil, repository.ErrBoxNotFound
	}

	return copyBox(box), nil
}

func (r *fakeBoxRepo) UpdateBox(_ context.Context, box *entity.Box) error {
	if _, ok := r.store.boxes[box.ID]; !ok {
		return repository.ErrBoxNotFound
	}
	box.Revision++
	r.store.boxes[box.ID] = copyBox(box)

	return nil
}

func (r *fakeBoxRepo) UpdateBoxWithRevision(_ context.Context, box *entity.Box, expectedRevision int64) error {
	stored, ok := r.store.boxes[box.ID]
	if !ok || stored.Revision != expectedRevision {
		return repository.ErrStaleRevision
	}
	box.Revision = expectedRevision + 1
	r.store.boxes[box.ID] = copyBox(box)

	return nil
}

func (r *fakeBoxRepo) DeleteBox(_ context.Context, id uuid.UUID) error {
	delete(r.store.boxes, id)

	return nil
}

type fakeCardRepo struct{ store *memStore }

func (r *fakeCardRepo) CreateCard(_ context.Context, card *entity.Card) error {
	r.store.cards[card.ID] = copyCard(card)

	return nil
}

func (r *fakeCardRepo) FindCardByID(_ context.Context, id uuid.UUID) (*entity.Card, error) {
	card, ok := r.store.cards[id]
	if !ok {
		return nil, repository.ErrCardNotFound
	}
	found := copyCard(card)
	if r.store.afterFindCard != nil {
		r.store.afterFindCard(r.store, id)
	}

	return found, nil
}

func (r *fakeCardRepo) FindCardsByBox(_ context.Context, boxID uuid.UUID) ([]*entity.Card, error) {
	var cards []*entity.Card
	for _, card := range r.store.cards {
		if card.BoxID == boxID {
			cards = append(cards, copyCard(card))
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].OrderInBox < cards[j].OrderInBox })

	return cards, nil
}

func (r *fakeCardRepo) UpdateCard(_ context.Context, card *entity.Card) error {
	if _, ok := r.store.cards[card.ID]; !ok {
		return repository.ErrCardNotFound
	}
	card.Revision++
	r.store.cards[card.ID] = copyCard(card)

	return nil
}

func (r *fakeCardRepo) UpdateCardWithRevision(_ context.Context, card *entity.Card, expectedRevision int64) error {
	stored, ok := r.store.cards[card.ID]
	if !ok || stored.Revision != expectedRevision {
		return repository.ErrStaleRevision
	}
	card.Revision = expectedRevision + 1
	r.store.cards[card.ID] = copyCard(card)

	return nil
}

func (r *fakeCardRepo) DeleteCard(_ context.Context, id uuid.UUID) error {
	delete(r.store.cards, id)

	return nil
}

func (r *fakeCardRepo) DeleteCardsByBox(_ context.Context, boxID uuid.UUID) error {
	for id, card := range r.store.cards {
		if card.BoxID == boxID {
			delete(r.store.cards, id)
		}
	}

	return nil
}

func (r *fakeCardRepo) TransferGuestCards(_ context.Context, boxID, userID uuid.UUID) error {
	for id, card := range r.store.cards {
		if card.BoxID == boxID && card.Owner.IsGuest() {
			moved := copyCard(card)
			moved.Owner = entity.UserOwner(userID)
			r.store.cards[id] = moved
		}
	}

	return nil
}

type fakeElementRepo struct{ store *memStore }

func (r *fakeElementRepo) CreateElement(_ context.Context, element *entity.Element) error {
	r.store.elements[element.ID] = copyElement(element)

	return nil
}

func (r *fakeElementRepo) BatchCreateElements(_ context.Context, elements []*entity.Element) error {
	for _, element := range elements {
		r.store.elements[element.ID] = copyElement(element)
	}

	return nil
}

func (r *fakeElementRepo) FindElementByID(_ context.Context, id uuid.UUID) (*entity.Element, error) {
	element, ok := r.store.elements[id]
	if !ok {
		return nil, repository.ErrElementNotFound
	}

	return copyElement(element), nil
}

func (r *fakeElementRepo) FindElementsByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Element, error) {
	elements := make([]*entity.Element, 0, len(ids))
	for _, id := range ids {
		if element, ok := r.store.elements[id]; ok {
			elements = append(elements, copyElement(element))
		}
	}

	return elements, nil
}

func (r *fakeElementRepo) FindElementsByBox(_ context.Context, boxID uuid.UUID) ([]*entity.Element, error) {
	var elements []*entity.Element
	for _, element := range r.store.elements {
		if element.BoxID == boxID {
			elements = append(elements, copyElement(element))
		}
	}

	return elements, nil
}

func (r *fakeElementRepo) UpdateElement(_ context.Context, element *entity.Element) error {
	if _, ok := r.store.elements[element.ID]; !ok {
		return repository.ErrElementNotFound
	}
	r.store.elements[element.ID] = copyElement(element)

	return nil
}

func (r *fakeElementRepo) DeleteElement(_ context.Context, id uuid.UUID) error {
	delete(r.store.elements, id)

	return nil
}

func (r *fakeElementRepo) DeleteElementsByIDs(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.store.elements, id)
	}

	return nil
}

func (r *fakeElementRepo) DeleteElementsByBox(_ context.Context, boxID uuid.UUID) error {
	for id, element := range r.store.elements {
		if element.BoxID == boxID {
			delete(r.store.elements, id)
		}
	}

	return nil
}

func (r *fakeElementRepo) TransferGuestElements(_ context.Context, boxID, userID uuid.UUID) error {
	for id, element := range r.store.elements {
		if element.BoxID == boxID && element.Owner.IsGuest() {
			moved := copyElement(element)
			moved.Owner = entity.UserOwner(userID)
			r.store.elements[id] = moved
		}
	}

	return nil
}

type fakeTemplateRepo struct{ store *memStore }

func (r *fakeTemplateRepo) CreateTemplate(_ context.Context, template *entity.CardTemplate) error {
	for _, existing := range r.store.templates {
		if existing.BoxID == template.BoxID {
			return repository.ErrDuplicateTemplate
		}
	}
	r.store.templates[template.ID] = copyTemplate(template)

	return nil
}

func (r *fakeTemplateRepo) FindTemplateByID(_ context.Context, id uuid.UUID) (*entity.CardTemplate, error) {
	template, ok := r.store.templates[id]
	if !ok {
		return nil, repository.ErrTemplateNotFound
	}

	return copyTemplate(template), nil
}

func (r *fakeTemplateRepo) FindTemplateByBox(_ context.Context, boxID uuid.UUID) (*entity.CardTemplate, error) {
	for _, template := range r.store.templates {
		if template.BoxID == boxID {
			found := copyTemplate(template)
			if r.store.afterFindTemplateByBox != nil {
				r.store.afterFindTemplateByBox(r.store, boxID)
			}

			return found, nil
		}
	}

	return nil, repository.ErrTemplateNotFound
}

func (r *fakeTemplateRepo) ReplaceTemplateElements(_ context.Context, templateID uuid.UUID, frontIDs, backIDs []uuid.UUID, expectedRevision int64) error {
	template, ok := r.store.templates[templateID]
	if !ok {
		return repository.ErrTemplateNotFound
	}
	for _, id := range append(copyIDs(frontIDs), backIDs...) {
		element, ok := r.store.elements[id]
		if !ok || element.BoxID != template.BoxID {
			return repository.ErrForeignTemplateElement
		}
	}
	if template.Revision != expectedRevision {
		return repository.ErrStaleRevision
	}
	replaced := copyTemplate(template)
	replaced.FrontElementIDs = copyIDs(frontIDs)
	replaced.BackElementIDs = copyIDs(backIDs)
	replaced.Revision = expectedRevision + 1
	r.store.templates[templateID] = replaced

	return nil
}

func (r *fakeTemplateRepo) TransferTemplateOwner(_ context.Context, boxID, userID uuid.UUID) error {
	for id, template := range r.store.templates {
		if template.BoxID == boxID {
			moved := copyTemplate(template)
			ownerID := userID
			moved.OwnerUserID = &ownerID
			r.store.templates[id] = moved
		}
	}

	return nil
}

func (r *fakeTemplateRepo) DeleteTemplateByBox(_ context.Context, boxID uuid.UUID) error {
	for id, template := range r.store.templates {
		if template.BoxID == boxID {
			delete(r.store.templates, id)
		}
	}

	return nil
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) CreateUser(_ context.Context, user *entity.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.store.users[user.ID] = copyUser(user)

	return nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

// fakePublisher records every event it is handed.
type fakePublisher struct {
	events []*service.DesignEvent
}

func (p *fakePublisher) PublishDesignEvent(_ context.Context, event *service.DesignEvent) error {
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}

	return types
}

type fakeShareService struct{}

func (s *fakeShareService) ShareURL(boxID uuid.UUID) string {
	return "https://deckbox.test/public/boxes/" + boxID.String()
}

func (s *fakeShareService) ShareQR(uuid.UUID) ([]byte, error) {
	return []byte("png"), nil
}

// fakeGenerator returns deterministic assets and can be flipped into a
// failing mode per concern to exercise the warning paths.
type fakeGenerator struct {
	failImages bool
	failText   bool
	images     int
}

func (g *fakeGenerator) GenerateImage(_ context.Context, _ string, _ string) (string, error) {
	if g.failImages {
		return "", fmt.Errorf("image provider down")
	}
	g.images++

	return fmt.Sprintf("https://assets.test/%d.png", g.images), nil
}

func (g *fakeGenerator) GenerateText(_ context.Context, prompt string, _ string) (string, error) {
	if g.failText {
		return "", fmt.Errorf("text provider down")
	}
	if strings.HasPrefix(prompt, "List ") {
		return "1. Ember Warden\n2. Gale Scribe\n3. Hollow Sentinel\n4. Tide Caller\n5. Ash Wanderer", nil
	}

	return "Generated rules text.", nil
}

// fakeHasher prefixes instead of hashing so tests can read the stored value.
type fakeHasher struct{}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService issues transparent tokens of the form "token:<userID>".
type fakeTokenService struct{}

func (s *fakeTokenService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return "token:" + userID.String(), nil
}

func (s *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	raw, ok := strings.CutPrefix(tokenString, "token:")
	if !ok {
		return nil, fmt.Errorf("malformed token")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed token subject")
	}

	return &service.Claims{UserID: userID}, nil
}

func (s *fakeTokenService) AccessTokenDuration() time.Duration {
	return time.Hour
}
