package impl

import (
	"context"
	"log/slog"

	deliverycontext "deckbox/internal/delivery/context"
	"deckbox/internal/domain/entity"
	domainerrors "deckbox/internal/domain/errors"
	"deckbox/internal/domain/repository"
	"deckbox/internal/domain/service"
	"deckbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultGeneratedCards = 5

// boxService implements the BoxUsecase interface.
type boxService struct {
	txManager    repository.TransactionManager
	boxRepo      repository.BoxRepository
	cardRepo     repository.CardRepository
	elementRepo  repository.ElementRepository
	templateRepo repository.CardTemplateRepository
	generator    service.GenerationProvider
	share        service.ShareService
	logger       *slog.Logger
}

// BoxServiceParams holds dependencies for BoxService, injected by Fx.
type BoxServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	BoxRepo      repository.BoxRepository
	CardRepo     repository.CardRepository
	ElementRepo  repository.ElementRepository
	TemplateRepo repository.CardTemplateRepository
	Generator    service.GenerationProvider
	Share        service.ShareService
	Logger       *slog.Logger
}

// NewBoxService is the constructor for boxService.
func NewBoxService(params BoxServiceParams) usecase.BoxUsecase {
	return &boxService{
		txManager:    params.TxManager,
		boxRepo:      params.BoxRepo,
		cardRepo:     params.CardRepo,
		elementRepo:  params.ElementRepo,
		templateRepo: params.TemplateRepo,
		generator:    params.Generator,
		share:        params.Share,
		logger:       params.Logger,
	}
}

func (srv *boxService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateBox creates an empty box with its card template.
func (srv *boxService) CreateBox(ctx context.Context, caller entity.Owner, input *usecase.CreateBoxInput) (*entity.Box, error) {
	box := newBox(caller, input.Name, input.Description, input.DefaultCardWidthPx, input.DefaultCardHeightPx)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return createBoxGraph(ctx, repoFactory, box, nil, nil, nil)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create box", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create box transaction")
	}
	srv.log(ctx).Debug("Box created", slog.Any("boxID", box.ID))

	return box, nil
}

// GetBox retrieves a fully resolved box visible to the caller. A box the
// caller cannot see reads as absent rather than forbidden.
func (srv *boxService) GetBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID) (*usecase.BoxView, error) {
	box, err := srv.boxRepo.FindBoxByID(ctx, boxID)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "box not found")
		}

		return nil, errors.Wrap(err, "failed to find box by id")
	}

	if !box.IsPublic && !box.Owner.CanAccess(caller) {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "box not found")
	}

	return resolveBoxView(ctx, srv.templateRepo, srv.cardRepo, srv.elementRepo, box)
}

// ListBoxesForUser retrieves all fully resolved boxes owned by a user.
func (srv *boxService) ListBoxesForUser(ctx context.Context, userID uuid.UUID) ([]*usecase.BoxView, error) {
	boxes, err := srv.boxRepo.FindBoxesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find boxes by user")
	}

	views := make([]*usecase.BoxView, 0, len(boxes))
	for _, box := range boxes {
		view, err := resolveBoxView(ctx, srv.templateRepo, srv.cardRepo, srv.elementRepo, box)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// GetPublicBox retrieves a box regardless of caller, if it is public.
func (srv *boxService) GetPublicBox(ctx context.Context, boxID uuid.UUID) (*usecase.BoxView, error) {
	box, err := srv.boxRepo.FindPublicBoxByID(ctx, boxID)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "box not found")
		}

		return nil, errors.Wrap(err, "failed to find public box by id")
	}

	return resolveBoxView(ctx, srv.templateRepo, srv.cardRepo, srv.elementRepo, box)
}

// UpdateBox updates box metadata. Ownership and visibility never change here.
func (srv *boxService) UpdateBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID, input *usecase.UpdateBoxInput) (*entity.Box, error) {
	box, err := srv.editableBox(ctx, srv.boxRepo, caller, boxID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		box.Name = *input.Name
	}
	if input.Description != nil {
		box.Description = *input.Description
	}
	if input.DefaultCardWidthPx != nil {
		box.DefaultCardWidthPx = *input.DefaultCardWidthPx
	}
	if input.DefaultCardHeightPx != nil {
		box.DefaultCardHeightPx = *input.DefaultCardHeightPx
	}
	box.BoxWidthPx, box.BoxHeightPx = entity.BoxDimensionsFor(box.DefaultCardWidthPx, box.DefaultCardHeightPx)

	if err := srv.boxRepo.UpdateBox(ctx, box); err != nil {
		return nil, errors.Wrap(err, "failed to update box")
	}

	return box, nil
}

// DeleteBox deletes a box, cascading to its cards, elements and template in
// one transaction.
func (srv *boxService) DeleteBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := srv.editableBox(ctx, repoFactory.BoxRepo(), caller, boxID); err != nil {
			return err
		}

		if err := repoFactory.ElementRepo().DeleteElementsByBox(ctx, boxID); err != nil {
			return errors.Wrap(err, "failed to delete box elements")
		}
		if err := repoFactory.CardRepo().DeleteCardsByBox(ctx, boxID); err != nil {
			return errors.Wrap(err, "failed to delete box cards")
		}
		if err := repoFactory.TemplateRepo().DeleteTemplateByBox(ctx, boxID); err != nil {
			return errors.Wrap(err, "failed to delete box template")
		}
		if err := repoFactory.BoxRepo().DeleteBox(ctx, boxID); err != nil {
			return errors.Wrap(err, "failed to delete box")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete box", slog.Any("boxID", boxID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete box transaction")
	}
	srv.log(ctx).Info("Box deleted", slog.Any("boxID", boxID))

	return nil
}

// TogglePublic flips the public flag. Turning a box public returns the share
// URL and its QR code so the client can present them immediately.
func (srv *boxService) TogglePublic(ctx context.Context, caller entity.Owner, boxID uuid.UUID) (*usecase.ShareStatus, error) {
	box, err := srv.editableBox(ctx, srv.boxRepo, caller, boxID)
	if err != nil {
		return nil, err
	}

	expected := box.Revision
	box.IsPublic = !box.IsPublic
	if err := srv.boxRepo.UpdateBoxWithRevision(ctx, box, expected); err != nil {
		if errors.Is(err, repository.ErrStaleRevision) {
			return nil, errors.Wrap(domainerrors.ErrConflict, "box was modified concurrently")
		}

		return nil, errors.Wrap(err, "failed to update box visibility")
	}

	status := &usecase.ShareStatus{IsPublic: box.IsPublic}
	if box.IsPublic {
		status.ShareURL = srv.share.ShareURL(box.ID)
		png, err := srv.share.ShareQR(box.ID)
		if err != nil {
			// The toggle already committed; a QR hiccup should not undo it.
			srv.log(ctx).Error("Failed to render share QR code", slog.Any("boxID", boxID), slog.Any("error", err))
		} else {
			status.QRCodePNG = png
		}
	}

	return status, nil
}

// AddBoxElement adds an element to one of the six packaging faces.
func (srv *boxService) AddBoxElement(ctx context.Context, caller entity.Owner, boxID uuid.UUID, face entity.BoxFace, input *usecase.ElementInput) (*entity.Element, error) {
	if !face.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown box face")
	}

	var created *entity.Element
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		boxRepo := repoFactory.BoxRepo()
		box, err := srv.editableBox(ctx, boxRepo, caller, boxID)
		if err != nil {
			return err
		}

		element := input.BuildElement()
		element.ID = uuid.New()
		element.BoxID = box.ID
		element.Owner = box.Owner

		if err := repoFactory.ElementRepo().CreateElement(ctx, element); err != nil {
			return errors.Wrap(err, "failed to create box element")
		}

		expected := box.Revision
		faceIDs := box.Design.Face(face)
		*faceIDs = append(*faceIDs, element.ID)
		if err := boxRepo.UpdateBoxWithRevision(ctx, box, expected); err != nil {
			if errors.Is(err, repository.ErrStaleRevision) {
				return errors.Wrap(domainerrors.ErrConflict, "box was modified concurrently")
			}

			return errors.Wrap(err, "failed to attach element to box face")
		}
		created = element

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add box element", slog.Any("boxID", boxID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute add box element transaction")
	}

	return created, nil
}

// UpdateBoxElement patches a packaging element in place.
func (srv *boxService) UpdateBoxElement(ctx context.Context, caller entity.Owner, elementID uuid.UUID, patch *usecase.ElementInput) (*entity.Element, error) {
	element, err := srv.elementRepo.FindElementByID(ctx, elementID)
	if err != nil {
		if errors.Is(err, repository.ErrElementNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "element not found")
		}

		return nil, errors.Wrap(err, "failed to find element by id")
	}

	box, err := srv.editableBox(ctx, srv.boxRepo, caller, element.BoxID)
	if err != nil {
		return nil, err
	}
	if !boxDesignContains(&box.Design, elementID) {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "element is not part of the box design")
	}

	patch.ApplyTo(element)
	if err := srv.elementRepo.UpdateElement(ctx, element); err != nil {
		return nil, errors.Wrap(err, "failed to update box element")
	}

	return element, nil
}

// DeleteBoxElement removes a packaging element from whichever face holds it.
func (srv *boxService) DeleteBoxElement(ctx context.Context, caller entity.Owner, boxID, elementID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		boxRepo := repoFactory.BoxRepo()
		box, err := srv.editableBox(ctx, boxRepo, caller, boxID)
		if err != nil {
			return err
		}
		if !boxDesignContains(&box.Design, elementID) {
			return errors.Wrap(domainerrors.ErrNotFound, "element is not part of the box design")
		}

		expected := box.Revision
		box.Design.RemoveElement(elementID)
		if err := boxRepo.UpdateBoxWithRevision(ctx, box, expected); err != nil {
			if errors.Is(err, repository.ErrStaleRevision) {
				return errors.Wrap(domainerrors.ErrConflict, "box was modified concurrently")
			}

			return errors.Wrap(err, "failed to detach element from box face")
		}

		if err := repoFactory.ElementRepo().DeleteElement(ctx, elementID); err != nil {
			return errors.Wrap(err, "failed to delete box element")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete box element", slog.Any("boxID", boxID), slog.Any("elementID", elementID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete box element transaction")
	}

	return nil
}

func (srv *boxService) editableBox(ctx context.Context, boxRepo repository.BoxRepository, caller entity.Owner, boxID uuid.UUID) (*entity.Box, error) {
	box, err := boxRepo.FindBoxByID(ctx, boxID)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "box not found")
		}

		return nil, errors.Wrap(err, "failed to find box by id")
	}

	if !box.Owner.CanAccess(caller) {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "caller does not own this box")
	}

	return box, nil
}

func boxDesignContains(design *entity.BoxDesign, elementID uuid.UUID) bool {
	for _, face := range []entity.BoxFace{
		entity.BoxFaceFront, entity.BoxFaceBack, entity.BoxFaceTop,
		entity.BoxFaceBottom, entity.BoxFaceLeft, entity.BoxFaceRight,
	} {
		if containsID(*design.Face(face), elementID) {
			return true
		}
	}

	return false
}

func newBox(owner entity.Owner, name, description string, cardWidthPx, cardHeightPx int) *entity.Box {
	if cardWidthPx <= 0 {
		cardWidthPx = entity.DefaultCardWidthPx
	}
	if cardHeightPx <= 0 {
		cardHeightPx = entity.DefaultCardHeightPx
	}
	boxW, boxH := entity.BoxDimensionsFor(cardWidthPx, cardHeightPx)

	return &entity.Box{
		ID:                  uuid.New(),
		Name:                name,
		Description:         description,
		Owner:               owner,
		CardTemplateID:      uuid.New(),
		DefaultCardWidthPx:  cardWidthPx,
		DefaultCardHeightPx: cardHeightPx,
		BoxWidthPx:          boxW,
		BoxHeightPx:         boxH,
	}
}

// createBoxGraph persists a box, its template and any pre-built elements and
// cards in one transaction. A nil template gets an empty one; its id always
// follows box.CardTemplateID.
func createBoxGraph(ctx context.Context, repoFactory repository.RepositoryFactory, box *entity.Box, template *entity.CardTemplate, elements []*entity.Element, cards []*entity.Card) error {
	if err := repoFactory.BoxRepo().CreateBox(ctx, box); err != nil {
		return errors.Wrap(err, "failed to create box")
	}

	if template == nil {
		template = &entity.CardTemplate{}
	}
	template.ID = box.CardTemplateID
	template.BoxID = box.ID
	template.OwnerUserID = box.Owner.UserIDPtr()

	if err := repoFactory.TemplateRepo().CreateTemplate(ctx, template); err != nil {
		return errors.Wrap(err, "failed to create card template")
	}

	if len(elements) > 0 {
		if err := repoFactory.ElementRepo().BatchCreateElements(ctx, elements); err != nil {
			return errors.Wrap(err, "failed to create box graph elements")
		}
	}

	cardRepo := repoFactory.CardRepo()
	for _, card := range cards {
		if err := cardRepo.CreateCard(ctx, card); err != nil {
			return errors.Wrap(err, "failed to create generated card")
		}
	}

	return nil
}
