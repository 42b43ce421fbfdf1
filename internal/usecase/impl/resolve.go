package impl

import (
	"context"

	"deckbox/internal/domain/entity"
	"deckbox/internal/domain/repository"
	"deckbox/internal/usecase"

	"github.com/pkg/errors"
)

// resolveTemplate expands a template's face lists into element slices.
func resolveTemplate(ctx context.Context, elementRepo repository.ElementRepository, template *entity.CardTemplate) (*usecase.ResolvedTemplate, error) {
	front, err := elementRepo.FindElementsByIDs(ctx, template.FrontElementIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load front template elements")
	}

	back, err := elementRepo.FindElementsByIDs(ctx, template.BackElementIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load back template elements")
	}

	return &usecase.ResolvedTemplate{
		Template:      template,
		FrontElements: front,
		BackElements:  back,
	}, nil
}

// resolveCard expands a card's element list into an element slice.
func resolveCard(ctx context.Context, elementRepo repository.ElementRepository, card *entity.Card) (*usecase.ResolvedCard, error) {
	elements, err := elementRepo.FindElementsByIDs(ctx, card.ElementIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load card elements")
	}

	return &usecase.ResolvedCard{
		Card:     card,
		Elements: elements,
	}, nil
}

// resolveBoxView assembles the full read model for a box: the box record,
// its template with both faces expanded and its cards in deck order.
func resolveBoxView(
	ctx context.Context,
	templateRepo repository.CardTemplateRepository,
	cardRepo repository.CardRepository,
	elementRepo repository.ElementRepository,
	box *entity.Box,
) (*usecase.BoxView, error) {
	template, err := templateRepo.FindTemplateByBox(ctx, box.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load box template")
	}

	resolvedTemplate, err := resolveTemplate(ctx, elementRepo, template)
	if err != nil {
		return nil, err
	}

	cards, err := cardRepo.FindCardsByBox(ctx, box.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load box cards")
	}

	resolvedCards := make([]*usecase.ResolvedCard, 0, len(cards))
	for _, card := range cards {
		resolved, err := resolveCard(ctx, elementRepo, card)
		if err != nil {
			return nil, err
		}
		resolvedCards = append(resolvedCards, resolved)
	}

	return &usecase.BoxView{
		Box:      box,
		Template: resolvedTemplate,
		Cards:    resolvedCards,
	}, nil
}
