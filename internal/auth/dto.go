package auth

import (
	"github.com/flo-app/flo-backend/internal/users"
	"github.com/google/uuid"
)

// RegisterRequest is the POST /users body.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=120"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=120"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the opaque refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse contains the tokens and the signed-in user.
type LoginResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// TokenPair is returned by a refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Identity is what a verified access token resolves to.
type Identity struct {
	UserID   uuid.UUID
	AccessID string
}
