package impl

import (
	"context"
	"log/slog"
	"time"

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

// designService implements the DesignUsecase interface. It is the single
// component allowed to flip a card between template-bound and custom and to
// mutate card element lists; everything it does runs as one transaction with
// an optimistic revision check on the card, so two concurrent edits produce
// exactly one winner and one Conflict.
type designService struct {
	txManager   repository.TransactionManager
	cardRepo    repository.CardRepository
	elementRepo repository.ElementRepository
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// DesignServiceParams holds dependencies for DesignService, injected by Fx.
type DesignServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CardRepo    repository.CardRepository
	ElementRepo repository.ElementRepository
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewDesignService is the constructor for designService.
func NewDesignService(params DesignServiceParams) usecase.DesignUsecase {
	return &designService{
		txManager:   params.TxManager,
		cardRepo:    params.CardRepo,
		elementRepo: params.ElementRepo,
		publisher:   params.Publisher,
		logger:      params.Logger,
	}
}

func (srv *designService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Detach converts a template-bound card into a custom one. The card's
// effective design (template front ∪ template back ∪ its own overlays) is
// cloned with fresh ids onto the card; the template and its elements are not
// modified, so sibling cards keep rendering exactly as before.
func (srv *designService) Detach(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*usecase.ResolvedCard, error) {
	var result *usecase.ResolvedCard
	var event *service.DesignEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		card, err := srv.lockCard(ctx, repoFactory, caller, cardID)
		if err != nil {
			return err
		}
		if card.IsCustomDesign {
			return errors.Wrap(domainerrors.ErrValidationFailed, "card already carries a custom design")
		}

		expected := card.Revision
		clones, _, err := srv.cloneDesignOntoCard(ctx, repoFactory, card)
		if err != nil {
			return err
		}

		if err := srv.writeCard(ctx, repoFactory, card, expected); err != nil {
			return err
		}

		result = &usecase.ResolvedCard{Card: card, Elements: clones}
		event = srv.newEvent(ctx, service.EventCardDetached, card.BoxID, card, caller)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Detach failed", slog.Any("cardID", cardID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute detach transaction")
	}

	srv.publish(ctx, event)
	srv.log(ctx).Debug("Card detached", slog.Any("cardID", cardID), slog.Int("elements", len(result.Elements)))

	return result, nil
}

// Promote replaces the box template's design with a custom card's elements
// and reverts the card to template-bound. The card's overlay elements stay
// personal to it; everything else becomes shared template material. Elements
// of the old template design are deleted, as is anything on the card that is
// neither promoted nor retained, so no element is left dangling. Other custom
// cards in the box are deliberately left alone.
func (srv *designService) Promote(ctx context.Context, caller entity.Owner, cardID uuid.UUID) (*usecase.ResolvedTemplate, error) {
	var result *usecase.ResolvedTemplate
	var event *service.DesignEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		card, err := srv.lockCard(ctx, repoFactory, caller, cardID)
		if err != nil {
			return err
		}
		if !card.IsCustomDesign {
			return errors.Wrap(domainerrors.ErrValidationFailed, "card is not custom, nothing to promote")
		}

		templateRepo := repoFactory.TemplateRepo()
		template, err := templateRepo.FindTemplateByBox(ctx, card.BoxID)
		if err != nil {
			return errors.Wrap(err, "failed to find template for promote")
		}
		oldTemplateIDs := template.AllElementIDs()

		elementRepo := repoFactory.ElementRepo()
		elements, err := elementRepo.FindElementsByIDs(ctx, card.ElementIDs)
		if err != nil {
			return errors.Wrap(err, "failed to load card elements for promote")
		}

		var frontIDs, backIDs, retainedIDs, orphanIDs []uuid.UUID
		var frontElements, backElements []*entity.Element
		for _, element := range elements {
			switch {
			case element.Role.IsOverlay():
				retainedIDs = append(retainedIDs, element.ID)
			case element.Face == entity.FaceFront:
				frontIDs = append(frontIDs, element.ID)
				frontElements = append(frontElements, element)
			case element.Face == entity.FaceBack:
				backIDs = append(backIDs, element.ID)
				backElements = append(backElements, element)
			default:
				orphanIDs = append(orphanIDs, element.ID)
			}
		}

		// Promoted and retained elements alike become card-independent:
		// the card is template-bound again after this commit.
		for _, element := range elements {
			if containsID(orphanIDs, element.ID) {
				continue
			}
			if element.CardID == nil {
				continue
			}
			element.CardID = nil
			if err := elementRepo.UpdateElement(ctx, element); err != nil {
				return errors.Wrap(err, "failed to release element from card")
			}
		}

		if err := elementRepo.DeleteElementsByIDs(ctx, oldTemplateIDs); err != nil {
			return errors.Wrap(err, "failed to delete replaced template elements")
		}
		if err := elementRepo.DeleteElementsByIDs(ctx, orphanIDs); err != nil {
			return errors.Wrap(err, "failed to delete unplaced card elements")
		}

		// The swap is revision-checked against the template read above: a
		// sibling promote that commits in between makes this one lose with
		// a Conflict instead of silently overwriting the installed design.
		if err := swapTemplateElements(ctx, templateRepo, template, frontIDs, backIDs); err != nil {
			return err
		}

		expected := card.Revision
		card.ElementIDs = retainedIDs
		card.IsCustomDesign = false
		if err := srv.writeCard(ctx, repoFactory, card, expected); err != nil {
			return err
		}

		result = &usecase.ResolvedTemplate{
			Template:      template,
			FrontElements: frontElements,
			BackElements:  backElements,
		}
		event = srv.newEvent(ctx, service.EventCardPromoted, card.BoxID, card, caller)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Promote failed", slog.Any("cardID", cardID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute promote transaction")
	}

	srv.publish(ctx, event)
	srv.log(ctx).Debug("Card promoted to template", slog.Any("cardID", cardID))

	return result, nil
}

// Claim transfers a guest box and its whole subtree to a user. Every step is
// keyed by box id, so an interrupted claim is safe to re-run; claiming a box
// the user already owns is a no-op.
func (srv *designService) Claim(ctx context.Context, boxID, userID uuid.UUID) (*entity.Box, error) {
	var result *entity.Box
	var event *service.DesignEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindUserByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "claiming user does not exist")
			}

			return errors.Wrap(err, "failed to find claiming user")
		}

		boxRepo := repoFactory.BoxRepo()
		box, err := boxRepo.FindBoxByID(ctx, boxID)
		if err != nil {
			if errors.Is(err, repository.ErrBoxNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "box not found")
			}

			return errors.Wrap(err, "failed to find box by id")
		}

		if ownerID, ok := box.Owner.UserID(); ok {
			if ownerID == userID {
				result = box // already claimed, idempotent

				return nil
			}

			return errors.Wrap(domainerrors.ErrForbidden, "box is owned by another user")
		}

		expected := box.Revision
		box.Owner = entity.UserOwner(userID)
		if err := boxRepo.UpdateBoxWithRevision(ctx, box, expected); err != nil {
			if errors.Is(err, repository.ErrStaleRevision) {
				return errors.Wrap(domainerrors.ErrConflict, "box was claimed concurrently")
			}

			return errors.Wrap(err, "failed to transfer box owner")
		}

		if err := repoFactory.CardRepo().TransferGuestCards(ctx, boxID, userID); err != nil {
			return errors.Wrap(err, "failed to transfer guest cards")
		}
		if err := repoFactory.ElementRepo().TransferGuestElements(ctx, boxID, userID); err != nil {
			return errors.Wrap(err, "failed to transfer guest elements")
		}
		if err := repoFactory.TemplateRepo().TransferTemplateOwner(ctx, boxID, userID); err != nil {
			return errors.Wrap(err, "failed to transfer template owner")
		}

		result = box
		event = srv.newEvent(ctx, service.EventBoxClaimed, boxID, nil, entity.UserOwner(userID))

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Claim failed", slog.Any("boxID", boxID), slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute claim transaction")
	}

	srv.publish(ctx, event)
	srv.log(ctx).Info("Box claimed", slog.Any("boxID", boxID), slog.Any("userID", userID))

	return result, nil
}

// AddElementToCard adds an element to a card. A template-bound card is
// detached first, inside the same transaction, so the new element lands on a
// design the card fully owns.
func (srv *designService) AddElementToCard(ctx context.Context, caller entity.Owner, cardID uuid.UUID, input *usecase.ElementInput) (*usecase.ResolvedCard, error) {
	var result *usecase.ResolvedCard
	var event *service.DesignEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		card, err := srv.lockCard(ctx, repoFactory, caller, cardID)
		if err != nil {
			return err
		}

		expected := card.Revision
		if !card.IsCustomDesign {
			if _, _, err := srv.cloneDesignOntoCard(ctx, repoFactory, card); err != nil {
				return err
			}
			event = srv.newEvent(ctx, service.EventCardDetached, card.BoxID, card, caller)
		}

		element := input.BuildElement()
		element.ID = uuid.New()
		element.BoxID = card.BoxID
		element.CardID = &card.ID
		element.Owner = card.Owner

		if err := repoFactory.ElementRepo().CreateElement(ctx, element); err != nil {
			return errors.Wrap(err, "failed to create card element")
		}
		card.ElementIDs = append(card.ElementIDs, element.ID)

		if err := srv.writeCard(ctx, repoFactory, card, expected); err != nil {
			return err
		}

		result, err = srv.resolveInTx(ctx, repoFactory, card)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Add card element failed", slog.Any("cardID", cardID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute add card element transaction")
	}

	srv.publish(ctx, event)

	return result, nil
}

// UpdateCardElement patches a card element, detaching the card first when it
// is template-bound. The target id is remapped through the clone set, so a
// patch aimed at a shared template element lands on the card's fresh copy.
func (srv *designService) UpdateCardElement(ctx context.Context, caller entity.Owner, cardID, elementID uuid.UUID, patch *usecase.ElementInput) (*usecase.ResolvedCard, error) {
	var result *usecase.ResolvedCard
	var event *service.DesignEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		card, err := srv.lockCard(ctx, repoFactory, caller, cardID)
		if err != nil {
			return err
		}

		expected := card.Revision
		target := elementID
		if !card.IsCustomDesign {
			_, cloneIDs, err := srv.cloneDesignOntoCard(ctx, repoFactory, card)
			if err != nil {
				return err
			}
			if mapped, ok := cloneIDs[elementID]; ok {
				target = mapped
			}
			event = srv.newEvent(ctx, service.EventCardDetached, card.BoxID, card, caller)
		}

		if !card.HasElement(target) {
			return errors.Wrap(domainerrors.ErrNotFound, "element does not belong to this card")
		}

		elementRepo := repoFactory.ElementRepo()
		element, err := elementRepo.FindElementByID(ctx, target)
		if err != nil {
			return errors.Wrap(err, "failed to find card element")
		}

		patch.ApplyTo(element)
		if err := elementRepo.UpdateElement(ctx, element); err != nil {
			return errors.Wrap(err, "failed to update card element")
		}

		if err := srv.writeCard(ctx, repoFactory, card, expected); err != nil {
			return err
		}

		result, err = srv.resolveInTx(ctx, repoFactory, card)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Update card element failed", slog.Any("cardID", cardID), slog.Any("elementID", elementID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute update card element transaction")
	}

	srv.publish(ctx, event)

	return result, nil
}

// DeleteCardElement removes an element from a card, detaching first when the
// card is template-bound. Deleting a shared template element through a card
// therefore removes it from this card only.
func (srv *designService) DeleteCardElement(ctx context.Context, caller entity.Owner, cardID, elementID uuid.UUID) (*usecase.ResolvedCard, error) {
	var result *usecase.ResolvedCard
	var event *service.DesignEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		card, err := srv.lockCard(ctx, repoFactory, caller, cardID)
		if err != nil {
			return err
		}

		expected := card.Revision
		target := elementID
		if !card.IsCustomDesign {
			_, cloneIDs, err := srv.cloneDesignOntoCard(ctx, repoFactory, card)
			if err != nil {
				return err
			}
			if mapped, ok := cloneIDs[elementID]; ok {
				target = mapped
			}
			event = srv.newEvent(ctx, service.EventCardDetached, card.BoxID, card, caller)
		}

		if !card.HasElement(target) {
			return errors.Wrap(domainerrors.ErrNotFound, "element does not belong to this card")
		}

		if err := repoFactory.ElementRepo().DeleteElement(ctx, target); err != nil {
			return errors.Wrap(err, "failed to delete card element")
		}
		card.RemoveElement(target)

		if err := srv.writeCard(ctx, repoFactory, card, expected); err != nil {
			return err
		}

		result, err = srv.resolveInTx(ctx, repoFactory, card)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Delete card element failed", slog.Any("cardID", cardID), slog.Any("elementID", elementID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute delete card element transaction")
	}

	srv.publish(ctx, event)

	return result, nil
}

// lockCard loads a card for mutation and enforces ownership.
func (srv *designService) lockCard(ctx context.Context, repoFactory repository.RepositoryFactory, caller entity.Owner, cardID uuid.UUID) (*entity.Card, error) {
	card, err := repoFactory.CardRepo().FindCardByID(ctx, cardID)
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

// cloneDesignOntoCard performs the detach body: it clones the card's
// effective design with fresh ids, persists the clones and rewrites the
// card's fields in memory. The caller commits the card with a revision
// check afterwards. The returned map translates source element ids to their
// clone ids.
func (srv *designService) cloneDesignOntoCard(ctx context.Context, repoFactory repository.RepositoryFactory, card *entity.Card) ([]*entity.Element, map[uuid.UUID]uuid.UUID, error) {
	template, err := repoFactory.TemplateRepo().FindTemplateByBox(ctx, card.BoxID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find template for detach")
	}

	sourceIDs := append(template.AllElementIDs(), card.ElementIDs...)
	elementRepo := repoFactory.ElementRepo()
	sources, err := elementRepo.FindElementsByIDs(ctx, sourceIDs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load design elements for detach")
	}

	clones := make([]*entity.Element, 0, len(sources))
	cloneIDs := make(map[uuid.UUID]uuid.UUID, len(sources))
	cardIDs := make([]uuid.UUID, 0, len(sources))
	for _, source := range sources {
		clone := source.Clone(card.ID, card.Owner)
		clones = append(clones, clone)
		cloneIDs[source.ID] = clone.ID
		cardIDs = append(cardIDs, clone.ID)
	}

	if err := elementRepo.BatchCreateElements(ctx, clones); err != nil {
		return nil, nil, errors.Wrap(err, "failed to persist detached clones")
	}

	card.ElementIDs = cardIDs
	card.IsCustomDesign = true

	return clones, cloneIDs, nil
}

// writeCard commits the card with its optimistic revision check, translating
// a stale revision into the domain conflict error.
func (srv *designService) writeCard(ctx context.Context, repoFactory repository.RepositoryFactory, card *entity.Card, expectedRevision int64) error {
	if err := repoFactory.CardRepo().UpdateCardWithRevision(ctx, card, expectedRevision); err != nil {
		if errors.Is(err, repository.ErrStaleRevision) {
			return errors.Wrap(domainerrors.ErrConflict, "card was modified concurrently")
		}

		return errors.Wrap(err, "failed to save card")
	}

	return nil
}

func (srv *designService) resolveInTx(ctx context.Context, repoFactory repository.RepositoryFactory, card *entity.Card) (*usecase.ResolvedCard, error) {
	return resolveCard(ctx, repoFactory.ElementRepo(), card)
}

func (srv *designService) newEvent(ctx context.Context, eventType string, boxID uuid.UUID, card *entity.Card, actor entity.Owner) *service.DesignEvent {
	event := &service.DesignEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		BoxID:      boxID.String(),
		OccurredAt: time.Now(),
	}
	if card != nil {
		event.CardID = card.ID.String()
	}
	if actorID, ok := actor.UserID(); ok {
		event.UserID = actorID.String()
	}

	return event
}

// publish emits a design event after the transaction committed. Publish
// failures are logged, never surfaced: the mutation already happened.
func (srv *designService) publish(ctx context.Context, event *service.DesignEvent) {
	if event == nil {
		return
	}
	if err := srv.publisher.PublishDesignEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish design event", slog.String("type", event.Type), slog.Any("error", err))
	}
}
