package usecase

import (
	"context"
	"time"

	"deckbox/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the payload for authenticating.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the issued token alongside the authenticated user.
type AuthResult struct {
	User        *entity.User  `json:"user"`
	AccessToken string        `json:"access_token"`
	ExpiresIn   time.Duration `json:"expires_in"`
}

// UserUsecase defines the interface for account use cases.
type UserUsecase interface {
	// Register creates an account and signs the user in.
	Register(ctx context.Context, input *RegisterInput) (*AuthResult, error)

	// Login authenticates by email and password.
	Login(ctx context.Context, input *LoginInput) (*AuthResult, error)

	// GetUser retrieves a user's profile.
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
