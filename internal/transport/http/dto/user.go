package dto

import (
	"time"

	"kamaru/internal/domain/models"
)

type UserRegisterInput struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserUpdateInput is a partial update, nil fields keep their value.
type UserUpdateInput struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=80"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1,max=72"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	ShortToken  string `json:"short_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         models.User `json:"user"`
}

func NewLoginResponse(pair models.TokenPair, user models.User) LoginResponse {
	return LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         user,
	}
}
