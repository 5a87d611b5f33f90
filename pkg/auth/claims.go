package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is the data baked into a freshly minted JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	// JTI ties the access token to its refresh session; generated when blank.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
