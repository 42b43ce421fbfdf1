package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"deckbox/internal/domain/entity"
	"deckbox/internal/domain/repository"
	"deckbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// genreFonts maps a deck genre to the title font the original editor ships
// for it. Unknown genres fall back to Arial.
var genreFonts = map[string]string{
	"fantasy":  "Cinzel",
	"sci-fi":   "Orbitron",
	"horror":   "Creepster",
	"western":  "Rye",
	"kids":     "Comic Sans MS",
	"medieval": "MedievalSharp",
}

func fontForGenre(genre string) string {
	if font, ok := genreFonts[strings.ToLower(strings.TrimSpace(genre))]; ok {
		return font
	}

	return "Arial"
}

// generatedAssets collects everything the provider produced for one deck,
// with warnings standing in for whatever failed.
type generatedAssets struct {
	cardFrontURL string
	cardBackURL  string
	boxFrontURL  string
	boxSideURL   string
	cardNames    []string
	cardTexts    []string
	cardArtURLs  []string
	warnings     []string
}

// GenerateDeck assembles a complete box from a prompt: template artwork, n
// template-bound cards with generated names and text, and optionally the six
// packaging faces. Provider failures degrade the deck instead of failing it;
// every miss is reported as a warning on the result.
func (srv *boxService) GenerateDeck(ctx context.Context, caller entity.Owner, input *usecase.GenerateDeckInput) (*usecase.GenerateDeckResult, error) {
	numCards := input.NumCards
	if numCards <= 0 {
		numCards = defaultGeneratedCards
	}

	srv.log(ctx).Info("Generating deck",
		slog.Int("numCards", numCards),
		slog.String("genre", input.Genre),
		slog.Bool("boxDesign", input.GenerateBoxDesign))

	// All provider calls happen before the transaction opens; generation can
	// take tens of seconds and must not hold a database connection.
	assets := srv.generateAssets(ctx, input, numCards)

	boxName := input.BoxName
	if boxName == "" {
		boxName = "Generated deck"
	}
	box := newBox(caller, boxName, input.BoxDescription, input.CardWidthPx, input.CardHeightPx)
	box.Generation = entity.GenerationSettings{
		UserPrompt:     input.Prompt,
		Genre:          input.Genre,
		CardColorTheme: input.CardColorTheme,
		FontFamily:     fontForGenre(input.Genre),
	}

	template, elements, cards := srv.assembleDeck(box, assets, numCards)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return createBoxGraph(ctx, repoFactory, box, template, elements, cards)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to persist generated deck", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute generate deck transaction")
	}

	view, err := resolveBoxView(ctx, srv.templateRepo, srv.cardRepo, srv.elementRepo, box)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Deck generated",
		slog.Any("boxID", box.ID),
		slog.Int("cards", len(cards)),
		slog.Int("warnings", len(assets.warnings)))

	return &usecase.GenerateDeckResult{BoxView: *view, Warnings: assets.warnings}, nil
}

func (srv *boxService) generateAssets(ctx context.Context, input *usecase.GenerateDeckInput, numCards int) *generatedAssets {
	assets := &generatedAssets{}

	theme := input.CardColorTheme
	if theme == "" {
		theme = "balanced, rich colors"
	}

	assets.cardFrontURL = srv.generateImage(ctx, assets,
		fmt.Sprintf("Card front background for a %s card game: %s. Color theme: %s. No text.", input.Genre, input.Prompt, theme),
		"3:4", "card front background")
	assets.cardBackURL = srv.generateImage(ctx, assets,
		fmt.Sprintf("Card back pattern for a %s card game: %s. Symmetric, ornamental, color theme: %s.", input.Genre, input.Prompt, theme),
		"3:4", "card back pattern")

	if input.GenerateBoxDesign {
		assets.boxFrontURL = srv.generateImage(ctx, assets,
			fmt.Sprintf("Game box cover art for: %s. Genre: %s. Dramatic composition, space for a title.", input.Prompt, input.Genre),
			"3:4", "box cover art")
		assets.boxSideURL = srv.generateImage(ctx, assets,
			fmt.Sprintf("Seamless side pattern for a game box themed: %s. Color theme: %s.", input.Prompt, theme),
			"1:1", "box side pattern")
	}

	assets.cardNames = srv.generateCardNames(ctx, assets, input, numCards)
	for i := 0; i < numCards; i++ {
		text, err := srv.generator.GenerateText(ctx,
			fmt.Sprintf("Write the rules text for the card %q in a %s card game about: %s. Two sentences, no preamble.", assets.cardNames[i], input.Genre, input.Prompt),
			"You write concise card-game rules text.")
		if err != nil {
			assets.warnings = append(assets.warnings, fmt.Sprintf("text for card %d unavailable: %v", i+1, err))
			text = ""
		}
		assets.cardTexts = append(assets.cardTexts, strings.TrimSpace(text))
	}

	if input.IncludeCharacterArt {
		for i := 0; i < numCards; i++ {
			art := srv.generateImage(ctx, assets,
				fmt.Sprintf("Character illustration for the card %q in a %s setting: %s. Centered subject, no text.", assets.cardNames[i], input.Genre, input.Prompt),
				"1:1", fmt.Sprintf("art for card %d", i+1))
			assets.cardArtURLs = append(assets.cardArtURLs, art)
		}
	}

	return assets
}

// generateImage wraps a provider call, demoting a failure to a warning and
// an empty URL.
func (srv *boxService) generateImage(ctx context.Context, assets *generatedAssets, prompt, aspectRatio, what string) string {
	url, err := srv.generator.GenerateImage(ctx, prompt, aspectRatio)
	if err != nil {
		srv.log(ctx).Warn("Image generation failed", slog.String("what", what), slog.Any("error", err))
		assets.warnings = append(assets.warnings, fmt.Sprintf("%s unavailable: %v", what, err))

		return ""
	}

	return url
}

func (srv *boxService) generateCardNames(ctx context.Context, assets *generatedAssets, input *usecase.GenerateDeckInput, numCards int) []string {
	names := make([]string, numCards)
	for i := range names {
		names[i] = fmt.Sprintf("Card %d", i+1)
	}

	raw, err := srv.generator.GenerateText(ctx,
		fmt.Sprintf("List %d short card names for a %s card game about: %s. One name per line, nothing else.", numCards, input.Genre, input.Prompt),
		"You name cards for tabletop games.")
	if err != nil {
		assets.warnings = append(assets.warnings, fmt.Sprintf("card names unavailable: %v", err))

		return names
	}

	for i, line := range strings.Split(raw, "\n") {
		if i >= numCards {
			break
		}
		if name := strings.TrimSpace(strings.TrimLeft(line, "0123456789.-) ")); name != "" {
			names[i] = name
		}
	}

	return names
}

// assembleDeck turns generated assets into the element/card graph for a new
// box: template background and back, per-card overlays carrying name and
// text, optional per-card art and optional packaging faces.
func (srv *boxService) assembleDeck(box *entity.Box, assets *generatedAssets, numCards int) (*entity.CardTemplate, []*entity.Element, []*entity.Card) {
	template := &entity.CardTemplate{}
	var elements []*entity.Element

	cardW := float64(box.DefaultCardWidthPx)
	cardH := float64(box.DefaultCardHeightPx)

	if assets.cardFrontURL != "" {
		background := imageElement(box, assets.cardFrontURL, entity.FaceFront, entity.RoleBackground, entity.Geometry{
			Width: cardW, Height: cardH, ZIndex: 0, Opacity: 1,
		})
		elements = append(elements, background)
		template.FrontElementIDs = append(template.FrontElementIDs, background.ID)
	}
	if assets.cardBackURL != "" {
		back := imageElement(box, assets.cardBackURL, entity.FaceBack, entity.RoleBackground, entity.Geometry{
			Width: cardW, Height: cardH, ZIndex: 0, Opacity: 1,
		})
		elements = append(elements, back)
		template.BackElementIDs = append(template.BackElementIDs, back.ID)
	}

	if assets.boxFrontURL != "" {
		cover := imageElement(box, assets.boxFrontURL, entity.FaceFront, entity.RoleBackground, entity.Geometry{
			Width: float64(box.BoxWidthPx), Height: float64(box.BoxHeightPx), ZIndex: 0, Opacity: 1,
		})
		elements = append(elements, cover)
		box.Design.FrontElementIDs = append(box.Design.FrontElementIDs, cover.ID)
	}
	if assets.boxSideURL != "" {
		for _, face := range []entity.BoxFace{entity.BoxFaceBack, entity.BoxFaceTop, entity.BoxFaceBottom, entity.BoxFaceLeft, entity.BoxFaceRight} {
			side := imageElement(box, assets.boxSideURL, entity.FaceFront, entity.RoleBackground, entity.Geometry{
				Width: float64(box.BoxWidthPx), Height: float64(box.BoxHeightPx), ZIndex: 0, Opacity: 1,
			})
			elements = append(elements, side)
			faceIDs := box.Design.Face(face)
			*faceIDs = append(*faceIDs, side.ID)
		}
	}

	cards := make([]*entity.Card, 0, numCards)
	for i := 0; i < numCards; i++ {
		card := &entity.Card{
			ID:         uuid.New(),
			BoxID:      box.ID,
			Owner:      box.Owner,
			Name:       assets.cardNames[i],
			OrderInBox: i,
			WidthPx:    box.DefaultCardWidthPx,
			HeightPx:   box.DefaultCardHeightPx,
			Metadata: entity.CardMetadata{
				TextPrompt:       box.Generation.UserPrompt,
				FrontImagePrompt: box.Generation.UserPrompt,
				FrontImageSource: assets.cardFrontURL,
			},
		}

		overlays := starterOverlays(card)
		overlays[1].Text.FontFamily = box.Generation.FontFamily
		if assets.cardTexts[i] != "" {
			overlays[1].Text.Content = assets.cardNames[i] + "\n" + assets.cardTexts[i]
		}
		for _, overlay := range overlays {
			elements = append(elements, overlay)
			card.ElementIDs = append(card.ElementIDs, overlay.ID)
		}

		if i < len(assets.cardArtURLs) && assets.cardArtURLs[i] != "" {
			art := imageElement(box, assets.cardArtURLs[i], entity.FaceFront, entity.RoleIllustration, entity.Geometry{
				X: cardW * 0.1, Y: cardH * 0.08, Width: cardW * 0.8, Height: cardW * 0.8, ZIndex: 2, Opacity: 1,
			})
			elements = append(elements, art)
			card.ElementIDs = append(card.ElementIDs, art.ID)
		}

		cards = append(cards, card)
	}

	return template, elements, cards
}

func imageElement(box *entity.Box, url string, face entity.Face, role entity.Role, geometry entity.Geometry) *entity.Element {
	return &entity.Element{
		ID:       uuid.New(),
		BoxID:    box.ID,
		Owner:    box.Owner,
		Kind:     entity.ElementKindImage,
		Face:     face,
		Role:     role,
		Geometry: geometry,
		ImageURL: url,
	}
}
