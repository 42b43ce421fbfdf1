package postgres

import (
	"context"

	"deckbox/internal/domain/entity"
	domainerrors "deckbox/internal/domain/errors"
	"deckbox/internal/domain/repository"
	"deckbox/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// cardRepository implements the repository.CardRepository interface.
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository is the constructor for cardRepository.
func NewCardRepository(db *gorm.DB) repository.CardRepository {
	return &cardRepository{
		db: db,
	}
}

// CreateCard persists a new card.
func (repo *cardRepository) CreateCard(ctx context.Context, card *entity.Card) error {
	cardM := fromCardDomain(card)

	if err := repo.db.WithContext(ctx).Create(cardM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("card references a missing box")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create card")
	}

	card.Revision = cardM.Revision
	card.CreatedAt = cardM.CreatedAt
	card.UpdatedAt = cardM.UpdatedAt

	return nil
}

// FindCardByID retrieves a card by its unique ID.
func (repo *cardRepository) FindCardByID(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	var cardM model.CardModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&cardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCardNotFound
		}

		return nil, errors.Wrap(err, "failed to find card by ID")
	}

	return toCardDomain(&cardM), nil
}

// FindCardsByBox retrieves all cards of a box in deck order.
func (repo *cardRepository) FindCardsByBox(ctx context.Context, boxID uuid.UUID) ([]*entity.Card, error) {
	var cardModels []*model.CardModel

	if err := repo.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Order("order_in_box ASC").
		Find(&cardModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find cards by box")
	}

	cards := make([]*entity.Card, 0, len(cardModels))
	for _, cardM := range cardModels {
		cards = append(cards, toCardDomain(cardM))
	}

	return cards, nil
}

// UpdateCard saves the card and bumps its revision unconditionally.
func (repo *cardRepository) UpdateCard(ctx context.Context, card *entity.Card) error {
	cardM := fromCardDomain(card)

	result := repo.db.WithContext(ctx).
		Model(&model.CardModel{}).
		Where("id = ?", card.ID).
		Select("owner_user_id", "is_guest", "name", "order_in_box", "width_px", "height_px",
			"is_custom_design", "element_ids", "metadata").
		Updates(cardM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update card")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCardNotFound
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.CardModel{}).
		Where("id = ?", card.ID).
		Update("revision", gorm.Expr("revision + 1")).Error; err != nil {
		return errors.Wrap(err, "failed to bump card revision")
	}
	card.Revision++

	return nil
}

// UpdateCardWithRevision saves the card only if its stored revision still
// equals expectedRevision. A concurrent writer that commits first makes this
// statement match zero rows, which surfaces as ErrStaleRevision.
func (repo *cardRepository) UpdateCardWithRevision(ctx context.Context, card *entity.Card, expectedRevision int64) error {
	cardM := fromCardDomain(card)
	cardM.Revision = expectedRevision + 1

	result := repo.db.WithContext(ctx).
		Model(&model.CardModel{}).
		Where("id = ? AND revision = ?", card.ID, expectedRevision).
		Select("owner_user_id", "is_guest", "name", "order_in_box", "width_px", "height_px",
			"is_custom_design", "element_ids", "metadata", "revision").
		Updates(cardM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update card with revision check")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStaleRevision
	}
	card.Revision = expectedRevision + 1

	return nil
}

// DeleteCard removes a card record by its ID.
func (repo *cardRepository) DeleteCard(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CardModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete card")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCardNotFound
	}

	return nil
}

// DeleteCardsByBox removes every card belonging to a box.
func (repo *cardRepository) DeleteCardsByBox(ctx context.Context, boxID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Delete(&model.CardModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete cards by box")
	}

	return nil
}

// TransferGuestCards re-owns all guest cards under a box to the given user.
// The guest-flag filter makes the statement idempotent across claim retries.
func (repo *cardRepository) TransferGuestCards(ctx context.Context, boxID, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.CardModel{}).
		Where("box_id = ? AND is_guest = ?", boxID, true).
		Updates(map[string]any{"owner_user_id": userID, "is_guest": false}).Error; err != nil {
		return errors.Wrap(err, "failed to transfer guest cards")
	}

	return nil
}

// --- Mapper Functions ---

// toCardDomain converts a GORM CardModel to a domain Card entity.
func toCardDomain(data *model.CardModel) *entity.Card {
	if data == nil {
		return nil
	}

	return &entity.Card{
		ID:             data.ID,
		BoxID:          data.BoxID,
		Owner:          entity.OwnerFrom(data.OwnerUserID, data.IsGuest),
		Name:           data.Name,
		OrderInBox:     data.OrderInBox,
		WidthPx:        data.WidthPx,
		HeightPx:       data.HeightPx,
		IsCustomDesign: data.IsCustomDesign,
		ElementIDs:     data.ElementIDs,
		Metadata:       data.Metadata.Data(),
		Revision:       data.Revision,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromCardDomain converts a domain Card entity to a GORM CardModel.
func fromCardDomain(data *entity.Card) *model.CardModel {
	if data == nil {
		return nil
	}

	return &model.CardModel{
		ID:             data.ID,
		BoxID:          data.BoxID,
		OwnerUserID:    data.Owner.UserIDPtr(),
		IsGuest:        data.Owner.IsGuest(),
		Name:           data.Name,
		OrderInBox:     data.OrderInBox,
		WidthPx:        data.WidthPx,
		HeightPx:       data.HeightPx,
		IsCustomDesign: data.IsCustomDesign,
		ElementIDs:     datatypes.NewJSONSlice(data.ElementIDs),
		Metadata:       datatypes.NewJSONType(data.Metadata),
		Revision:       data.Revision,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
