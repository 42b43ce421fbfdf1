package handler

import (
	domainerrors "deckbox/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// parseUUID reads a path parameter as a UUID.
func parseUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WrapMessage("invalid " + name)
	}

	return id, nil
}
