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

// cardService implements the CardUsecase interface. Element-level edits are
// not handled here: those route through the customization engine so that a
// write against a template-bound card detaches it first.
type cardService struct {
	txManager    repository.TransactionManager
	cardRepo     repository.CardRepository
	boxRepo      repository.BoxRepository
	templateRepo repository.CardTemplateRepository
	elementRepo  repository.ElementRepository
	logger       *slog.Logger
}

// CardServiceParams holds dependencies for CardService, injected by Fx.
type CardServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CardRepo     repository.CardRepository
	BoxRepo      repository.BoxRepository
	TemplateRepo repository.CardTemplateRepository
	ElementRepo  repository.ElementRepository
	Logger       *slog.Logger
}

// NewCardService is the constructor for cardService.
func NewCardService(params CardServiceParams) usecase.CardUsecase {
	return &cardService{
		txManager:    params.TxManager,
		cardRepo:     params.CardRepo,
		boxRepo:      params.BoxRepo,
		templateRepo: params.TemplateRepo,
		elementRepo:  params.ElementRepo,
		logger:       params.Logger,
	}
}

func (srv *cardService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateCardInBox appends a template-bound card to the box. Every card is
// born with its own overlay shape and title text so it has somewhere to put
// per-card content without touching the shared template.
func (srv *cardService) CreateCardInBox(ctx context.Context, caller entity.Owner, boxID uuid.UUID, input *usecase.CreateCardInput) (*usecase.ResolvedCard, error) {
	var result *usecase.ResolvedCard

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		box, err := repoFactory.BoxRepo().FindBoxByID(ctx, boxID)
		if err != nil {
			if errors.Is(err, repository.ErrBoxNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "box not found")
			}

			return errors.Wrap(err, "failed to find box by id")
		}
		if !box.Owner.CanAccess(caller) {
			return errors.Wrap(domainerrors.ErrForbidden, "caller does not own this box")
		}

		cardRepo := repoFactory.CardRepo()
		existing, err := cardRepo.FindCardsByBox(ctx, boxID)
		if err != nil {
			return errors.Wrap(err, "failed to count cards in box")
		}

		// Next slot comes after the highest surviving order, so deleting a
		// card never makes a later create collide with a sibling.
		nextOrder := 0
		for _, sibling := range existing {
			if sibling.OrderInBox >= nextOrder {
				nextOrder = sibling.OrderInBox + 1
			}
		}

		// Bumping the box revision serializes card creation per box: two
		// concurrent creates cannot both claim the same order slot.
		if err := repoFactory.BoxRepo().UpdateBoxWithRevision(ctx, box, box.Revision); err != nil {
			if errors.Is(err, repository.ErrStaleRevision) {
				return errors.Wrap(domainerrors.ErrConflict, "box was modified concurrently")
			}

			return errors.Wrap(err, "failed to bump box revision")
		}

		card := &entity.Card{
			ID:         uuid.New(),
			BoxID:      box.ID,
			Owner:      box.Owner,
			Name:       input.Name,
			OrderInBox: nextOrder,
			WidthPx:    box.DefaultCardWidthPx,
			HeightPx:   box.DefaultCardHeightPx,
		}
		if input.WidthPx > 0 {
			card.WidthPx = input.WidthPx
		}
		if input.HeightPx > 0 {
			card.HeightPx = input.HeightPx
		}
		if input.Metadata != nil {
			card.Metadata = *input.Metadata
		}

		overlays := starterOverlays(card)
		if err := repoFactory.ElementRepo().BatchCreateElements(ctx, overlays); err != nil {
			return errors.Wrap(err, "failed to create starter overlay elements")
		}
		for _, overlay := range overlays {
			card.ElementIDs = append(card.ElementIDs, overlay.ID)
		}

		if err := cardRepo.CreateCard(ctx, card); err != nil {
			return errors.Wrap(err, "failed to create card")
		}

		result = &usecase.ResolvedCard{Card: card, Elements: overlays}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create card", slog.Any("boxID", boxID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create card transaction")
	}
	srv.log(ctx).Debug("Card created", slog.Any("cardID", result.Card.ID), slog.Any("boxID", boxID))

	return result, nil
}

// GetCard retrieves a card with its effective design resolved. For a
// template-bound card the view carries the template; for a custom card the
// card's own elements are the whole design and Template is nil.
func (srv *cardService) GetCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*usecase.CardDesignView, error) {
	card, err := srv.visibleCard(ctx, caller, cardID)
	if err != nil {
		return nil, err
	}

	resolvedCard, err := resolveCard(ctx, srv.elementRepo, card)
	if err != nil {
		return nil, err
	}

	view := &usecase.CardDesignView{Card: resolvedCard}
	if card.IsCustomDesign {
		return view, nil
	}

	template, err := srv.templateRepo.FindTemplateByBox(ctx, card.BoxID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find template for card")
	}

	view.Template, err = resolveTemplate(ctx, srv.elementRepo, template)
	if err != nil {
		return nil, err
	}

	return view, nil
}

// UpdateCard patches card name and metadata. Design state never changes here.
func (srv *cardService) UpdateCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID, input *usecase.UpdateCardInput) (*entity.Card, error) {
	card, err := srv.editableCard(ctx, caller, cardID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		card.Name = *input.Name
	}
	if input.Metadata != nil {
		card.Metadata = *input.Metadata
	}

	if err := srv.cardRepo.UpdateCard(ctx, card); err != nil {
		return nil, errors.Wrap(err, "failed to update card")
	}

	return card, nil
}

// DeleteCard deletes a card together with every element it lists. For a
// custom card that is the full design, for a template-bound card only its
// private overlays; the shared template is never touched.
func (srv *cardService) DeleteCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cardRepo := repoFactory.CardRepo()

		card, err := cardRepo.FindCardByID(ctx, cardID)
		if err != nil {
			if errors.Is(err, repository.ErrCardNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "card not found")
			}

			return errors.Wrap(err, "failed to find card by id")
		}
		if !card.Owner.CanAccess(caller) {
			return errors.Wrap(domainerrors.ErrForbidden, "caller does not own this card")
		}

		if err := repoFactory.ElementRepo().DeleteElementsByIDs(ctx, card.ElementIDs); err != nil {
			return errors.Wrap(err, "failed to delete card elements")
		}

		if err := cardRepo.DeleteCard(ctx, cardID); err != nil {
			return errors.Wrap(err, "failed to delete card")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete card", slog.Any("cardID", cardID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete card transaction")
	}
	srv.log(ctx).Debug("Card deleted", slog.Any("cardID", cardID))

	return nil
}

func (srv *cardService) visibleCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*entity.Card, error) {
	card, err := srv.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "card not found")
		}

		return nil, errors.Wrap(err, "failed to find card by id")
	}

	if !card.Owner.CanAccess(caller) {
		box, err := srv.boxRepo.FindBoxByID(ctx, card.BoxID)
		if err != nil || !box.IsPublic {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "card not found")
		}
	}

	return card, nil
}

func (srv *cardService) editableCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*entity.Card, error) {
	card, err := srv.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "card not found")
		}

		return nil, errors.Wrap(err, "failed to find card by id")
	}

	if !card.Owner.CanAccess(caller) {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "caller does not own this card")
	}

	return card, nil
}

// starterOverlays builds the per-card shape and title every new card starts
// with. They stay with the card through detach/promote cycles.
func starterOverlays(card *entity.Card) []*entity.Element {
	cardW := float64(card.WidthPx)
	cardH := float64(card.HeightPx)

	shape := &entity.Element{
		ID:    uuid.New(),
		BoxID: card.BoxID,
		Owner: card.Owner,
		Kind:  entity.ElementKindShape,
		Face:  entity.FaceFront,
		Role:  entity.RoleOverlayShape,
		Geometry: entity.Geometry{
			X:       cardW * 0.1,
			Y:       cardH * 0.65,
			Width:   cardW * 0.8,
			Height:  cardH * 0.25,
			ZIndex:  3,
			Opacity: 0.85,
		},
		Shape: entity.ShapeStyle{
			ShapeType:    entity.ShapeRectangle,
			FillColor:    "#ffffff",
			BorderRadius: 8,
		},
	}

	title := &entity.Element{
		ID:    uuid.New(),
		BoxID: card.BoxID,
		Owner: card.Owner,
		Kind:  entity.ElementKindText,
		Face:  entity.FaceFront,
		Role:  entity.RoleOverlayText,
		Geometry: entity.Geometry{
			X:       cardW * 0.15,
			Y:       cardH * 0.68,
			Width:   cardW * 0.7,
			Height:  cardH * 0.19,
			ZIndex:  5,
			Opacity: 1,
		},
		Text: entity.TextStyle{
			Content:    card.Name,
			FontSize:   defaultStarterFontSize,
			FontFamily: defaultStarterFontFamily,
			Color:      "#000000",
			TextAlign:  "center",
			FontWeight: "bold",
		},
	}

	return []*entity.Element{shape, title}
}

const (
	defaultStarterFontSize   = "18px"
	defaultStarterFontFamily = "Arial"
)
