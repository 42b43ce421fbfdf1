package auth

import (
	"testing"
	"time"

	"deckbox/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = secret
	cfg.SecretKey.AccessTTL = ttl

	return cfg
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret", time.Hour))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, time.Hour, svc.AccessTokenDuration())
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(newTestJWTConfig("", time.Hour))
	assert.Error(t, err)
}

func TestJWTService_DefaultTTL(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret", 0))
	require.NoError(t, err)

	assert.Equal(t, defaultAccessTTL, svc.AccessTokenDuration())
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig("test-secret", time.Hour))
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestJWTConfig("issuer-secret", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestJWTConfig("other-secret", time.Hour))
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	// The constructor clamps non-positive TTLs, so build the service
	// directly to issue an already expired token.
	svc := &jwtService{secret: "test-secret", accessTTL: -time.Minute}

	token, err := svc.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
