package impl

import (
	"context"
	"log/slog"

	deliverycontext "deckbox/internal/delivery/context"
	"deckbox/internal/domain/entity"
	domainerrors "deckbox/internal/domain/errors"
	"deckbox/internal/domain/repository"
	"deckbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// templateService implements the TemplateUsecase interface.
type templateService struct {
	txManager    repository.TransactionManager
	templateRepo repository.CardTemplateRepository
	boxRepo      repository.BoxRepository
	elementRepo  repository.ElementRepository
	logger       *slog.Logger
}

// TemplateServiceParams holds dependencies for TemplateService, injected by Fx.
type TemplateServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	TemplateRepo repository.CardTemplateRepository
	BoxRepo      repository.BoxRepository
	ElementRepo  repository.ElementRepository
	Logger       *slog.Logger
}

// NewTemplateService is the constructor for templateService.
func NewTemplateService(params TemplateServiceParams) usecase.TemplateUsecase {
	return &templateService{
		txManager:    params.TxManager,
		templateRepo: params.TemplateRepo,
		boxRepo:      params.BoxRepo,
		elementRepo:  params.ElementRepo,
		logger:       params.Logger,
	}
}

func (srv *templateService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetTemplate retrieves a template with both faces resolved.
func (srv *templateService) GetTemplate(ctx context.Context, caller entity.Owner, templateID uuid.UUID) (*usecase.ResolvedTemplate, error) {
	template, err := srv.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "template not found")
		}

		return nil, errors.Wrap(err, "failed to find template by id")
	}

	if _, err := srv.visibleBox(ctx, srv.boxRepo, caller, template.BoxID); err != nil {
		return nil, err
	}

	return resolveTemplate(ctx, srv.elementRepo, template)
}

// GetTemplateForBox retrieves the box's template with both faces resolved.
func (srv *templateService) GetTemplateForBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID) (*usecase.ResolvedTemplate, error) {
	if _, err := srv.visibleBox(ctx, srv.boxRepo, caller, boxID); err != nil {
		return nil, err
	}

	template, err := srv.templateRepo.FindTemplateByBox(ctx, boxID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "template not found")
		}

		return nil, errors.Wrap(err, "failed to find template by box")
	}

	return resolveTemplate(ctx, srv.elementRepo, template)
}

// AddTemplateElement appends an element to one of the template's faces.
// Template-bound cards in the box pick it up immediately; custom cards are
// untouched.
func (srv *templateService) AddTemplateElement(ctx context.Context, caller entity.Owner, templateID uuid.UUID, input *usecase.AddTemplateElementInput) (*entity.Element, error) {
	var created *entity.Element

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		template, box, err := srv.editableTemplate(ctx, repoFactory, caller, templateID)
		if err != nil {
			return err
		}

		element := input.Element.BuildElement()
		element.ID = uuid.New()
		element.BoxID = box.ID
		element.Owner = box.Owner
		element.Face = input.Face

		if err := repoFactory.ElementRepo().CreateElement(ctx, element); err != nil {
			return errors.Wrap(err, "failed to create template element")
		}

		frontIDs, backIDs := template.FrontElementIDs, template.BackElementIDs
		if input.Face == entity.FaceFront {
			frontIDs = append(frontIDs, element.ID)
		} else {
			backIDs = append(backIDs, element.ID)
		}

		if err := swapTemplateElements(ctx, repoFactory.TemplateRepo(), template, frontIDs, backIDs); err != nil {
			return err
		}
		created = element

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add template element", slog.Any("templateID", templateID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute add template element transaction")
	}

	return created, nil
}

// UpdateTemplateElement patches a template element in place.
func (srv *templateService) UpdateTemplateElement(ctx context.Context, caller entity.Owner, templateID, elementID uuid.UUID, patch *usecase.ElementInput) (*entity.Element, error) {
	var updated *entity.Element

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		template, _, err := srv.editableTemplate(ctx, repoFactory, caller, templateID)
		if err != nil {
			return err
		}

		if !containsID(template.AllElementIDs(), elementID) {
			return errors.Wrap(domainerrors.ErrNotFound, "element does not belong to this template")
		}

		elementRepo := repoFactory.ElementRepo()
		element, err := elementRepo.FindElementByID(ctx, elementID)
		if err != nil {
			return errors.Wrap(err, "failed to find template element")
		}

		patch.ApplyTo(element)
		if err := elementRepo.UpdateElement(ctx, element); err != nil {
			return errors.Wrap(err, "failed to update template element")
		}
		updated = element

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update template element", slog.Any("elementID", elementID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute update template element transaction")
	}

	return updated, nil
}

// DeleteTemplateElement removes an element from whichever face holds it.
func (srv *templateService) DeleteTemplateElement(ctx context.Context, caller entity.Owner, templateID, elementID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		template, _, err := srv.editableTemplate(ctx, repoFactory, caller, templateID)
		if err != nil {
			return err
		}

		if !containsID(template.AllElementIDs(), elementID) {
			return errors.Wrap(domainerrors.ErrNotFound, "element does not belong to this template")
		}

		frontIDs := removeID(template.FrontElementIDs, elementID)
		backIDs := removeID(template.BackElementIDs, elementID)

		if err := swapTemplateElements(ctx, repoFactory.TemplateRepo(), template, frontIDs, backIDs); err != nil {
			return err
		}

		if err := repoFactory.ElementRepo().DeleteElement(ctx, elementID); err != nil {
			return errors.Wrap(err, "failed to delete template element")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete template element", slog.Any("elementID", elementID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete template element transaction")
	}

	return nil
}

// visibleBox loads a box for a read, hiding its existence from callers who
// may not see it.
func (srv *templateService) visibleBox(ctx context.Context, boxRepo repository.BoxRepository, caller entity.Owner, boxID uuid.UUID) (*entity.Box, error) {
	box, err := boxRepo.FindBoxByID(ctx, boxID)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "box not found")
		}

		return nil, errors.Wrap(err, "failed to find box by id")
	}

	if !box.IsPublic && !box.Owner.CanAccess(caller) {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "box not found")
	}

	return box, nil
}

// editableTemplate loads a template and its box inside a transaction and
// enforces write access through the box owner.
func (srv *templateService) editableTemplate(ctx context.Context, repoFactory repository.RepositoryFactory, caller entity.Owner, templateID uuid.UUID) (*entity.CardTemplate, *entity.Box, error) {
	template, err := repoFactory.TemplateRepo().FindTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrNotFound, "template not found")
		}

		return nil, nil, errors.Wrap(err, "failed to find template by id")
	}

	box, err := repoFactory.BoxRepo().FindBoxByID(ctx, template.BoxID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find box for template")
	}

	if !box.Owner.CanAccess(caller) {
		return nil, nil, errors.Wrap(domainerrors.ErrForbidden, "caller does not own this box")
	}

	return template, box, nil
}

// swapTemplateElements installs new face lists on a template with its
// revision check and keeps the in-memory entity in step with the committed
// row. Every caller of the swap surfaces the same Conflict and
// ValidationError translations through here.
func swapTemplateElements(ctx context.Context, templateRepo repository.CardTemplateRepository, template *entity.CardTemplate, frontIDs, backIDs []uuid.UUID) error {
	err := templateRepo.ReplaceTemplateElements(ctx, template.ID, frontIDs, backIDs, template.Revision)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStaleRevision):
		return errors.Wrap(domainerrors.ErrConflict, "template was modified concurrently")
	case errors.Is(err, repository.ErrForeignTemplateElement):
		return errors.Wrap(domainerrors.ErrValidationFailed, "element does not belong to the template's box")
	default:
		return errors.Wrap(err, "failed to replace template elements")
	}

	template.FrontElementIDs = frontIDs
	template.BackElementIDs = backIDs
	template.Revision++

	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	kept := make([]uuid.UUID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}

	return kept
}
