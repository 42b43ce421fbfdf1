package handler

import (
	"log/slog"
	"net/http"

	"deckbox/internal/delivery/http/middleware"
	"deckbox/internal/delivery/http/response"
	"deckbox/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CardHandler holds dependencies for card-related handlers, including the
// customization engine behind detach, promote and card element edits.
type CardHandler struct {
	uc       usecase.CardUsecase
	designUC usecase.DesignUsecase
	logger   *slog.Logger
}

// NewCardHandler is the constructor for CardHandler, injected by Fx.
func NewCardHandler(uc usecase.CardUsecase, designUC usecase.DesignUsecase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		uc:       uc,
		designUC: designUC,
		logger:   logger,
	}
}

// CreateCard handles appending a card to a box.
func (h *CardHandler) CreateCard(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.CreateCardInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid card input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	card, err := h.uc.CreateCardInBox(c.Request().Context(), middleware.Caller(c), boxID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, card, "Card created successfully")
}

// GetCard handles retrieving a card with its effective design resolved.
func (h *CardHandler) GetCard(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.GetCard(c.Request().Context(), middleware.Caller(c), cardID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Card retrieved successfully")
}

// UpdateCard handles patching card name and metadata.
func (h *CardHandler) UpdateCard(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.UpdateCardInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid card input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	card, err := h.uc.UpdateCard(c.Request().Context(), middleware.Caller(c), cardID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, card, "Card updated successfully")
}

// DeleteCard handles deleting a card with its card-scoped elements.
func (h *CardHandler) DeleteCard(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteCard(c.Request().Context(), middleware.Caller(c), cardID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Card deleted successfully")
}

// Detach handles converting a template-bound card into a custom one.
func (h *CardHandler) Detach(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}

	card, err := h.designUC.Detach(c.Request().Context(), middleware.Caller(c), cardID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, card, "Card detached successfully")
}

// Promote handles replacing the box template with a custom card's design.
func (h *CardHandler) Promote(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}

	template, err := h.designUC.Promote(c.Request().Context(), middleware.Caller(c), cardID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, template, "Card design promoted successfully")
}

// AddCardElement handles adding an element to a card, detaching it first if
// it still follows the template.
func (h *CardHandler) AddCardElement(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.ElementInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid element input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	card, err := h.designUC.AddElementToCard(c.Request().Context(), middleware.Caller(c), cardID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, card, "Element added successfully")
}

// UpdateCardElement handles patching a card element, detaching first if needed.
func (h *CardHandler) UpdateCardElement(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}
	elementID, err := parseUUID(c, "elementId")
	if err != nil {
		return errors.WithStack(err)
	}

	var patch *usecase.ElementInput
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid element input")
	}
	if err := c.Validate(patch); err != nil {
		return errors.WithStack(err)
	}

	card, err := h.designUC.UpdateCardElement(c.Request().Context(), middleware.Caller(c), cardID, elementID, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, card, "Element updated successfully")
}

// DeleteCardElement handles removing a card element, detaching first if needed.
func (h *CardHandler) DeleteCardElement(c echo.Context) error {
	cardID, err := parseUUID(c, "cardId")
	if err != nil {
		return errors.WithStack(err)
	}
	elementID, err := parseUUID(c, "elementId")
	if err != nil {
		return errors.WithStack(err)
	}

	card, err := h.designUC.DeleteCardElement(c.Request().Context(), middleware.Caller(c), cardID, elementID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, card, "Element deleted successfully")
}
