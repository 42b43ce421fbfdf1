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

// cardTemplateRepository implements the repository.CardTemplateRepository interface.
type cardTemplateRepository struct {
	db *gorm.DB
}

// NewCardTemplateRepository is the constructor for cardTemplateRepository.
func NewCardTemplateRepository(db *gorm.DB) repository.CardTemplateRepository {
	return &cardTemplateRepository{
		db: db,
	}
}

// CreateTemplate persists a new template. The unique index on box_id turns a
// second insert for the same box into ErrDuplicateTemplate.
func (repo *cardTemplateRepository) CreateTemplate(ctx context.Context, template *entity.CardTemplate) error {
	templateM := fromTemplateDomain(template)

	if err := repo.db.WithContext(ctx).Create(templateM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateTemplate
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create card template")
	}

	template.CreatedAt = templateM.CreatedAt
	template.UpdatedAt = templateM.UpdatedAt

	return nil
}

// FindTemplateByID retrieves a template by its unique ID.
func (repo *cardTemplateRepository) FindTemplateByID(ctx context.Context, id uuid.UUID) (*entity.CardTemplate, error) {
	var templateM model.CardTemplateModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&templateM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTemplateNotFound
		}

		return nil, errors.Wrap(err, "failed to find template by ID")
	}

	return toTemplateDomain(&templateM), nil
}

// FindTemplateByBox retrieves the template of a box.
func (repo *cardTemplateRepository) FindTemplateByBox(ctx context.Context, boxID uuid.UUID) (*entity.CardTemplate, error) {
	var templateM model.CardTemplateModel

	if err := repo.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		First(&templateM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTemplateNotFound
		}

		return nil, errors.Wrap(err, "failed to find template by box")
	}

	return toTemplateDomain(&templateM), nil
}

// ReplaceTemplateElements atomically swaps both element lists of a template.
// The swap is revision-checked, and every id must resolve to an element in
// the template's own box; a foreign or unknown id rejects the whole swap.
func (repo *cardTemplateRepository) ReplaceTemplateElements(ctx context.Context, templateID uuid.UUID, frontIDs, backIDs []uuid.UUID, expectedRevision int64) error {
	ids := make([]uuid.UUID, 0, len(frontIDs)+len(backIDs))
	ids = append(ids, frontIDs...)
	ids = append(ids, backIDs...)
	if len(ids) > 0 {
		var matched int64
		if err := repo.db.WithContext(ctx).
			Model(&model.ElementModel{}).
			Where("id IN ?", ids).
			Where("box_id = (?)", repo.db.
				Model(&model.CardTemplateModel{}).
				Select("box_id").
				Where("id = ?", templateID)).
			Count(&matched).Error; err != nil {
			return errors.Wrap(err, "failed to validate template element ids")
		}
		if matched != int64(len(ids)) {
			return repository.ErrForeignTemplateElement
		}
	}

	result := repo.db.WithContext(ctx).
		Model(&model.CardTemplateModel{}).
		Where("id = ? AND revision = ?", templateID, expectedRevision).
		Updates(map[string]any{
			"front_element_ids": datatypes.NewJSONSlice(frontIDs),
			"back_element_ids":  datatypes.NewJSONSlice(backIDs),
			"revision":          expectedRevision + 1,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to replace template elements")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.CardTemplateModel{}).
			Where("id = ?", templateID).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check template existence")
		}
		if count == 0 {
			return repository.ErrTemplateNotFound
		}

		return repository.ErrStaleRevision
	}

	return nil
}

// TransferTemplateOwner sets the owning user for the template of a box.
func (repo *cardTemplateRepository) TransferTemplateOwner(ctx context.Context, boxID, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.CardTemplateModel{}).
		Where("box_id = ?", boxID).
		Update("owner_user_id", userID).Error; err != nil {
		return errors.Wrap(err, "failed to transfer template owner")
	}

	return nil
}

// DeleteTemplateByBox removes the template of a box.
func (repo *cardTemplateRepository) DeleteTemplateByBox(ctx context.Context, boxID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("box_id = ?", boxID).
		Delete(&model.CardTemplateModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete template by box")
	}

	return nil
}

// --- Mapper Functions ---

// toTemplateDomain converts a GORM CardTemplateModel to a domain CardTemplate entity.
func toTemplateDomain(data *model.CardTemplateModel) *entity.CardTemplate {
	if data == nil {
		return nil
	}

	return &entity.CardTemplate{
		ID:              data.ID,
		BoxID:           data.BoxID,
		OwnerUserID:     data.OwnerUserID,
		FrontElementIDs: data.FrontElementIDs,
		BackElementIDs:  data.BackElementIDs,
		Revision:        data.Revision,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromTemplateDomain converts a domain CardTemplate entity to a GORM CardTemplateModel.
func fromTemplateDomain(data *entity.CardTemplate) *model.CardTemplateModel {
	if data == nil {
		return nil
	}

	return &model.CardTemplateModel{
		ID:              data.ID,
		BoxID:           data.BoxID,
		OwnerUserID:     data.OwnerUserID,
		FrontElementIDs: datatypes.NewJSONSlice(data.FrontElementIDs),
		BackElementIDs:  datatypes.NewJSONSlice(data.BackElementIDs),
		Revision:        data.Revision,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
