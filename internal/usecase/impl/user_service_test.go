package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "deckbox/internal/domain/errors"
	"deckbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	result, err := f.users.Register(ctx, &usecase.RegisterInput{
		Email:    "maker@example.com",
		Name:     "Maker",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)

	assert.Equal(t, "maker@example.com", result.User.Email)
	assert.Equal(t, "token:"+result.User.ID.String(), result.AccessToken)
	assert.Equal(t, time.Hour, result.ExpiresIn)

	// The password is stored hashed, never verbatim.
	stored := f.store.users[result.User.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "hashed:s3cret-enough", stored.PasswordHash)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, &usecase.RegisterInput{
		Email:    "maker@example.com",
		Name:     "Maker",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)

	_, err = f.users.Register(ctx, &usecase.RegisterInput{
		Email:    "maker@example.com",
		Name:     "Other Maker",
		Password: "different-pass",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
	assert.Len(t, f.store.users, 1)
}

func TestUserService_Login(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	registered, err := f.users.Register(ctx, &usecase.RegisterInput{
		Email:    "maker@example.com",
		Name:     "Maker",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)

	result, err := f.users.Login(ctx, &usecase.LoginInput{
		Email:    "maker@example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)
}

func TestUserService_Login_BadCredentials(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, &usecase.RegisterInput{
		Email:    "maker@example.com",
		Name:     "Maker",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)

	// Wrong password and unknown email fail the same way.
	_, err = f.users.Login(ctx, &usecase.LoginInput{
		Email:    "maker@example.com",
		Password: "wrong",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = f.users.Login(ctx, &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "s3cret-enough",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_GetUser(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	seeded := f.seedUser(t, "maker@example.com")

	user, err := f.users.GetUser(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Email, user.Email)

	_, err = f.users.GetUser(ctx, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
