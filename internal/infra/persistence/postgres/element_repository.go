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

// elementRepository implements the repository.ElementRepository interface.
type elementRepository struct {
	db *gorm.DB
}

// NewElementRepository is the constructor for elementRepository.
func NewElementRepository(db *gorm.DB) repository.ElementRepository {
	return &elementRepository{
		db: db,
	}
}

// CreateElement persists a new element.
func (repo *elementRepository) CreateElement(ctx context.Context, element *entity.Element) error {
	elementM := fromElementDomain(element)

	if err := repo.db.WithContext(ctx).Create(elementM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("element references a missing box or card")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create element")
	}

	element.CreatedAt = elementM.CreatedAt
	element.UpdatedAt = elementM.UpdatedAt

	return nil
}

// BatchCreateElements persists multiple elements in one statement.
func (repo *elementRepository) BatchCreateElements(ctx context.Context, elements []*entity.Element) error {
	if len(elements) == 0 {
		return nil
	}

	models := make([]*model.ElementModel, 0, len(elements))
	for _, element := range elements {
		models = append(models, fromElementDomain(element))
	}

	if err := repo.db.WithContext(ctx).Create(&models).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to batch create elements")
	}

	for i, element := range elements {
		element.CreatedAt = models[i].CreatedAt
		element.UpdatedAt = models[i].UpdatedAt
	}

	return nil
}

// FindElementByID retrieves an element by its unique ID.
func (repo *elementRepository) FindElementByID(ctx context.Context, id uuid.UUID) (*entity.Element, error) {
	var elementM model.ElementModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&elementM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrElementNotFound
		}

		return nil, errors.Wrap(err, "failed to find element by ID")
	}

	return toElementDomain(&elementM), nil
}

// FindElementsByIDs retrieves the elements for the given ids, preserving the
// order of ids. Ids with no matching row are skipped silently; the caller's
// id lists are the source of truth for ordering, the table is not.
func (repo *elementRepository) FindElementsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Element, error) {
	if len(ids) == 0 {
		return []*entity.Element{}, nil
	}

	var elementModels []*model.ElementModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&elementModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find elements by IDs")
	}

	byID := make(map[uuid.UUID]*model.ElementModel, len(elementModels))
	for _, elementM := range elementModels {
		byID[elementM.ID] = elementM
	}

	elements := make([]*entity.Element, 0, len(ids))
	for _, id := range ids {
		if elementM, ok := byID[id]; ok {
			elements = append(elements, toElementDomain(elementM))
		}
	}

	return elements, nil
}

// FindElementsByBox retrieves every element under a box.
func (repo *elementRepository) FindElementsByBox(ctx context.Context, boxID uuid.UUID) ([]*entity.Element, error) {
	var elementModels []*model.ElementModel

	if err := repo.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Order("created_at ASC").
		Find(&elementModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find elements by box")
	}

	elements := make([]*entity.Element, 0, len(elementModels))
	for _, elementM := range elementModels {
		elements = append(elements, toElementDomain(elementM))
	}

	return elements, nil
}

// UpdateElement saves an existing element record.
func (repo *elementRepository) UpdateElement(ctx context.Context, element *entity.Element) error {
	elementM := fromElementDomain(element)

	result := repo.db.WithContext(ctx).
		Model(&model.ElementModel{}).
		Where("id = ?", element.ID).
		Select("card_id", "owner_user_id", "is_guest", "kind", "face", "role", "geometry", "text", "shape", "image_url").
		Updates(elementM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update element")
	}
	if result.RowsAffected == 0 {
		return repository.ErrElementNotFound
	}

	return nil
}

// DeleteElement removes an element by its ID.
func (repo *elementRepository) DeleteElement(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ElementModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete element")
	}
	if result.RowsAffected == 0 {
		return repository.ErrElementNotFound
	}

	return nil
}

// DeleteElementsByIDs removes all elements with the given ids.
func (repo *elementRepository) DeleteElementsByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&model.ElementModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete elements by IDs")
	}

	return nil
}

// DeleteElementsByBox removes every element under a box.
func (repo *elementRepository) DeleteElementsByBox(ctx context.Context, boxID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Delete(&model.ElementModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete elements by box")
	}

	return nil
}

// TransferGuestElements re-owns all guest elements under a box to the given
// user. The filter keys on the guest flag, so re-running after a partial
// claim touches nothing already transferred.
func (repo *elementRepository) TransferGuestElements(ctx context.Context, boxID, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.ElementModel{}).
		Where("box_id = ? AND is_guest = ?", boxID, true).
		Updates(map[string]any{"owner_user_id": userID, "is_guest": false}).Error; err != nil {
		return errors.Wrap(err, "failed to transfer guest elements")
	}

	return nil
}

// --- Mapper Functions ---

// toElementDomain converts a GORM ElementModel to a domain Element entity.
func toElementDomain(data *model.ElementModel) *entity.Element {
	if data == nil {
		return nil
	}

	return &entity.Element{
		ID:        data.ID,
		BoxID:     data.BoxID,
		CardID:    data.CardID,
		Owner:     entity.OwnerFrom(data.OwnerUserID, data.IsGuest),
		Kind:      entity.ElementKind(data.Kind),
		Face:      entity.Face(data.Face),
		Role:      entity.Role(data.Role),
		Geometry:  data.Geometry.Data(),
		Text:      data.Text.Data(),
		Shape:     data.Shape.Data(),
		ImageURL:  data.ImageURL,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromElementDomain converts a domain Element entity to a GORM ElementModel.
func fromElementDomain(data *entity.Element) *model.ElementModel {
	if data == nil {
		return nil
	}

	return &model.ElementModel{
		ID:          data.ID,
		BoxID:       data.BoxID,
		CardID:      data.CardID,
		OwnerUserID: data.Owner.UserIDPtr(),
		IsGuest:     data.Owner.IsGuest(),
		Kind:        string(data.Kind),
		Face:        string(data.Face),
		Role:        string(data.Role),
		Geometry:    datatypes.NewJSONType(data.Geometry),
		Text:        datatypes.NewJSONType(data.Text),
		Shape:       datatypes.NewJSONType(data.Shape),
		ImageURL:    data.ImageURL,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
