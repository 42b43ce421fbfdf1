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

// boxRepository implements the repository.BoxRepository interface.
type boxRepository struct {
	db *gorm.DB
}

// NewBoxRepository is the constructor for boxRepository.
func NewBoxRepository(db *gorm.DB) repository.BoxRepository {
	return &boxRepository{
		db: db,
	}
}

// CreateBox persists a new box.
func (repo *boxRepository) CreateBox(ctx context.Context, box *entity.Box) error {
	boxM := fromBoxDomain(box)

	if err := repo.db.WithContext(ctx).Create(boxM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create box")
	}

	box.Revision = boxM.Revision
	box.CreatedAt = boxM.CreatedAt
	box.UpdatedAt = boxM.UpdatedAt

	return nil
}

// FindBoxByID retrieves a box by its unique ID.
func (repo *boxRepository) FindBoxByID(ctx context.Context, id uuid.UUID) (*entity.Box, error) {
	var boxM model.BoxModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&boxM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoxNotFound
		}

		return nil, errors.Wrap(err, "failed to find box by ID")
	}

	return toBoxDomain(&boxM), nil
}

// FindBoxesByUser retrieves all boxes owned by a user, most recently updated first.
func (repo *boxRepository) FindBoxesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Box, error) {
	var boxModels []*model.BoxModel

	if err := repo.db.WithContext(ctx).
		Where("owner_user_id = ? AND is_guest = ?", userID, false).
		Order("updated_at DESC").
		Find(&boxModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find boxes by user")
	}

	boxes := make([]*entity.Box, 0, len(boxModels))
	for _, boxM := range boxModels {
		boxes = append(boxes, toBoxDomain(boxM))
	}

	return boxes, nil
}

// FindPublicBoxByID retrieves a box only if it is public.
func (repo *boxRepository) FindPublicBoxByID(ctx context.Context, id uuid.UUID) (*entity.Box, error) {
	var boxM model.BoxModel

	if err := repo.db.WithContext(ctx).
		Where("id = ? AND is_public = ?", id, true).
		First(&boxM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoxNotFound
		}

		return nil, errors.Wrap(err, "failed to find public box by ID")
	}

	return toBoxDomain(&boxM), nil
}

// UpdateBox saves the box and bumps its revision unconditionally.
func (repo *boxRepository) UpdateBox(ctx context.Context, box *entity.Box) error {
	boxM := fromBoxDomain(box)

	result := repo.db.WithContext(ctx).
		Model(&model.BoxModel{}).
		Where("id = ?", box.ID).
		Select(boxUpdateColumns).
		Updates(boxM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update box")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoxNotFound
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.BoxModel{}).
		Where("id = ?", box.ID).
		Update("revision", gorm.Expr("revision + 1")).Error; err != nil {
		return errors.Wrap(err, "failed to bump box revision")
	}
	box.Revision++

	return nil
}

// UpdateBoxWithRevision saves the box only if its stored revision still
// equals expectedRevision; a zero-row match surfaces as ErrStaleRevision.
func (repo *boxRepository) UpdateBoxWithRevision(ctx context.Context, box *entity.Box, expectedRevision int64) error {
	boxM := fromBoxDomain(box)
	boxM.Revision = expectedRevision + 1

	result := repo.db.WithContext(ctx).
		Model(&model.BoxModel{}).
		Where("id = ? AND revision = ?", box.ID, expectedRevision).
		Select(append(boxUpdateColumns, "revision")).
		Updates(boxM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update box with revision check")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStaleRevision
	}
	box.Revision = expectedRevision + 1

	return nil
}

// DeleteBox removes a box record by its ID.
func (repo *boxRepository) DeleteBox(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.BoxModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete box")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoxNotFound
	}

	return nil
}

// boxUpdateColumns lists the mutable box columns; revision is handled by the
// update helpers themselves.
var boxUpdateColumns = []string{
	"name", "description", "owner_user_id", "is_guest", "is_public",
	"default_card_width_px", "default_card_height_px", "box_width_px", "box_height_px",
	"design", "generation",
}

// --- Mapper Functions ---

// toBoxDomain converts a GORM BoxModel to a domain Box entity.
func toBoxDomain(data *model.BoxModel) *entity.Box {
	if data == nil {
		return nil
	}

	return &entity.Box{
		ID:                  data.ID,
		Name:                data.Name,
		Description:         data.Description,
		Owner:               entity.OwnerFrom(data.OwnerUserID, data.IsGuest),
		IsPublic:            data.IsPublic,
		CardTemplateID:      data.CardTemplateID,
		DefaultCardWidthPx:  data.DefaultCardWidthPx,
		DefaultCardHeightPx: data.DefaultCardHeightPx,
		BoxWidthPx:          data.BoxWidthPx,
		BoxHeightPx:         data.BoxHeightPx,
		Design:              data.Design.Data(),
		Generation:          data.Generation.Data(),
		Revision:            data.Revision,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

// fromBoxDomain converts a domain Box entity to a GORM BoxModel.
func fromBoxDomain(data *entity.Box) *model.BoxModel {
	if data == nil {
		return nil
	}

	return &model.BoxModel{
		ID:                  data.ID,
		Name:                data.Name,
		Description:         data.Description,
		OwnerUserID:         data.Owner.UserIDPtr(),
		IsGuest:             data.Owner.IsGuest(),
		IsPublic:            data.IsPublic,
		CardTemplateID:      data.CardTemplateID,
		DefaultCardWidthPx:  data.DefaultCardWidthPx,
		DefaultCardHeightPx: data.DefaultCardHeightPx,
		BoxWidthPx:          data.BoxWidthPx,
		BoxHeightPx:         data.BoxHeightPx,
		Design:              datatypes.NewJSONType(data.Design),
		Generation:          datatypes.NewJSONType(data.Generation),
		Revision:            data.Revision,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
