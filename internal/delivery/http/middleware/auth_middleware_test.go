package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deckbox/internal/domain/entity"
	"deckbox/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenService accepts exactly one token string.
type stubTokenService struct {
	token  string
	userID uuid.UUID
}

func (s *stubTokenService) GenerateAccessToken(uuid.UUID) (string, error) {
	return s.token, nil
}

func (s *stubTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	if tokenString != s.token {
		return nil, errors.New("invalid token")
	}

	return &service.Claims{UserID: s.userID}, nil
}

func (s *stubTokenService) AccessTokenDuration() time.Duration { return time.Hour }

func invokeMiddleware(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	return c, rec, err
}

func TestAuthMiddleware_Identify_Anonymous(t *testing.T) {
	mw := NewAuthMiddleware(&stubTokenService{token: "good", userID: uuid.New()})

	c, rec, err := invokeMiddleware(t, mw.Identify, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, Caller(c).IsGuest())
}

func TestAuthMiddleware_Identify_ValidToken(t *testing.T) {
	userID := uuid.New()
	mw := NewAuthMiddleware(&stubTokenService{token: "good", userID: userID})

	c, rec, err := invokeMiddleware(t, mw.Identify, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	gotID, ok := CallerUserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
}

func TestAuthMiddleware_Identify_InvalidTokenRejected(t *testing.T) {
	mw := NewAuthMiddleware(&stubTokenService{token: "good", userID: uuid.New()})

	// A present but invalid token must never downgrade to guest.
	_, rec, err := invokeMiddleware(t, mw.Identify, "Bearer bad")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, rec, err = invokeMiddleware(t, mw.Identify, "Basic abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()
	mw := NewAuthMiddleware(&stubTokenService{token: "good", userID: userID})

	_, rec, err := invokeMiddleware(t, mw.Authenticate, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, rec, err = invokeMiddleware(t, mw.Authenticate, "Bearer bad")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec, err := invokeMiddleware(t, mw.Authenticate, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	gotID, ok := CallerUserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
}

func TestCaller_DefaultsToGuest(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.True(t, Caller(c).IsGuest())
	_, ok := CallerUserID(c)
	assert.False(t, ok)
	assert.True(t, Caller(c).Equal(entity.GuestOwner()))
}
