package middleware

import (
	"net/http"
	"strings"

	"deckbox/internal/domain/entity"
	"deckbox/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const callerContextKey = "caller"

// AuthMiddleware resolves the caller identity from the Authorization header.
// Most routes accept anonymous guests, so identity resolution and identity
// enforcement are separate middlewares.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Identify resolves the caller as a user when a valid Bearer token is
// present, and as a guest when the header is absent. A present but invalid
// token is rejected rather than silently downgraded to guest.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			c.Set(callerContextKey, entity.GuestOwner())

			return next(c)
		}

		owner, err := m.resolveOwner(authHeader)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		c.Set(callerContextKey, owner)

		return next(c)
	}
}

// Authenticate requires a valid Bearer token. It must guard every route
// whose semantics need a concrete user, such as listing owned boxes or
// claiming a guest box.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		owner, err := m.resolveOwner(authHeader)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		c.Set(callerContextKey, owner)

		return next(c)
	}
}

func (m *AuthMiddleware) resolveOwner(authHeader string) (entity.Owner, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return entity.Owner{}, errors.New("Invalid token format, must be Bearer token")
	}

	claims, err := m.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		return entity.Owner{}, errors.New("Invalid or expired token")
	}

	return entity.UserOwner(claims.UserID), nil
}

// Caller returns the identity resolved by Identify or Authenticate. Routes
// without either middleware see a guest.
func Caller(c echo.Context) entity.Owner {
	if owner, ok := c.Get(callerContextKey).(entity.Owner); ok {
		return owner
	}

	return entity.GuestOwner()
}

// CallerUserID returns the authenticated user's ID, if any.
func CallerUserID(c echo.Context) (uuid.UUID, bool) {
	return Caller(c).UserID()
}
