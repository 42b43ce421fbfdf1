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

// TemplateHandler holds dependencies for shared card template handlers.
type TemplateHandler struct {
	uc     usecase.TemplateUsecase
	logger *slog.Logger
}

// NewTemplateHandler is the constructor for TemplateHandler, injected by Fx.
func NewTemplateHandler(uc usecase.TemplateUsecase, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetTemplate handles retrieving a template with both faces resolved.
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	templateID, err := parseUUID(c, "templateId")
	if err != nil {
		return errors.WithStack(err)
	}

	template, err := h.uc.GetTemplate(c.Request().Context(), middleware.Caller(c), templateID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, template, "Template retrieved successfully")
}

// GetTemplateForBox handles retrieving a box's template.
func (h *TemplateHandler) GetTemplateForBox(c echo.Context) error {
	boxID, err := parseUUID(c, "boxId")
	if err != nil {
		return errors.WithStack(err)
	}

	template, err := h.uc.GetTemplateForBox(c.Request().Context(), middleware.Caller(c), boxID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, template, "Template retrieved successfully")
}

// AddTemplateElement handles appending an element to one of the template's
// faces, visible on every card still following the template.
func (h *TemplateHandler) AddTemplateElement(c echo.Context) error {
	templateID, err := parseUUID(c, "templateId")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.AddTemplateElementInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid element input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	element, err := h.uc.AddTemplateElement(c.Request().Context(), middleware.Caller(c), templateID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, element, "Element added successfully")
}

// UpdateTemplateElement handles patching a template element.
func (h *TemplateHandler) UpdateTemplateElement(c echo.Context) error {
	templateID, err := parseUUID(c, "templateId")
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

	element, err := h.uc.UpdateTemplateElement(c.Request().Context(), middleware.Caller(c), templateID, elementID, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, element, "Element updated successfully")
}

// DeleteTemplateElement handles removing an element from a template face.
func (h *TemplateHandler) DeleteTemplateElement(c echo.Context) error {
	templateID, err := parseUUID(c, "templateId")
	if err != nil {
		return errors.WithStack(err)
	}
	elementID, err := parseUUID(c, "elementId")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteTemplateElement(c.Request().Context(), middleware.Caller(c), templateID, elementID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Element deleted successfully")
}
