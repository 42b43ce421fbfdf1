package handler

import (
	"log/slog"
	"net/http"

	"deckbox/internal/delivery/http/middleware"
	"deckbox/internal/delivery/http/response"
	"deckbox/internal/domain/entity"
	"deckbox/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BoxHandler holds dependencies for box-related handlers.
type BoxHandler struct {
	uc       usecase.BoxUsecase
	designUC usecase.DesignUsecase
	logger   *slog.Logger
}

// NewBoxHandler is the constructor for BoxHandler, injected by Fx.
func NewBoxHandler(uc usecase.BoxUsecase, designUC usecase.DesignUsecase, logger *slog.Logger) *BoxHandler {
	return &BoxHandler{
		uc:       uc,
		designUC: designUC,
		logger:   logger,
	}
}

// CreateBox handles creating an empty box with its card template.
func (h *BoxHandler) CreateBox(c echo.Context) error {
	var input *usecase.CreateBoxInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid box input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	box, err := h.uc.CreateBox(c.Request().Context(), middleware.Caller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, box, "Box created successfully")
}

// GenerateDeck handles the full AI deck generation flow.
func (h *BoxHandler) GenerateDeck(c echo.Context) error {
	var input *usecase.GenerateDeckInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid generation input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.uc.GenerateDeck(c.Request().Context(), middleware.Caller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Deck generated successfully")
}

// ListBoxes handles listing the authenticated user's boxes.
func (h *BoxHandler) ListBoxes(c echo.Context) error {
	userID, ok := middleware.CallerUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	boxes, err := h.uc.ListBoxesForUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, boxes, "Boxes retrieved successfully")
}

// GetBox handles retrieving a fully resolved box.
func (h *BoxHandler) GetBox(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.GetBox(c.Request().Context(), middleware.Caller(c), boxID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Box retrieved successfully")
}

// GetPublicBox handles the unauthenticated read of a shared box.
func (h *BoxHandler) GetPublicBox(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.GetPublicBox(c.Request().Context(), boxID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Box retrieved successfully")
}

// UpdateBox handles patching box metadata.
func (h *BoxHandler) UpdateBox(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.UpdateBoxInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid box input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	box, err := h.uc.UpdateBox(c.Request().Context(), middleware.Caller(c), boxID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, box, "Box updated successfully")
}

// DeleteBox handles deleting a box and everything under it.
func (h *BoxHandler) DeleteBox(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteBox(c.Request().Context(), middleware.Caller(c), boxID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Box deleted successfully")
}

// TogglePublic handles flipping the box's public flag.
func (h *BoxHandler) TogglePublic(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	status, err := h.uc.TogglePublic(c.Request().Context(), middleware.Caller(c), boxID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, status, "Box visibility updated successfully")
}

// Claim handles transferring a guest box to the authenticated user.
func (h *BoxHandler) Claim(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	userID, ok := middleware.CallerUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	box, err := h.designUC.Claim(c.Request().Context(), boxID, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, box, "Box claimed successfully")
}

// AddBoxElement handles adding an element to one of the six packaging faces.
func (h *BoxHandler) AddBoxElement(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	face := entity.BoxFace(c.Param("face"))

	var input *usecase.ElementInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid element input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	element, err := h.uc.AddBoxElement(c.Request().Context(), middleware.Caller(c), boxID, face, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, element, "Element added successfully")
}

// UpdateBoxElement handles patching a packaging element.
func (h *BoxHandler) UpdateBoxElement(c echo.Context) error {
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

	element, err := h.uc.UpdateBoxElement(c.Request().Context(), middleware.Caller(c), elementID, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, element, "Element updated successfully")
}

// DeleteBoxElement handles removing a packaging element.
func (h *BoxHandler) DeleteBoxElement(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}
	elementID, err := parseUUID(c, "elementId")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteBoxElement(c.Request().Context(), middleware.Caller(c), boxID, elementID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Element deleted successfully")
}
