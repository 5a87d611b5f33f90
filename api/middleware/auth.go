package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/flo-app/flo-backend/api/responses"
	internalauth "github.com/flo-app/flo-backend/internal/auth"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/logger"
)

const (
	tokenRequiredMessage = "token required"
	invalidTokenMessage  = "invalid token"
)

// TokenVerifier resolves a bearer token to the caller identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*internalauth.Identity, error)
}

// Auth rejects requests without a valid bearer token and seeds the context with the user id.
func Auth(verifier TokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, tokenRequiredMessage))
				return
			}
			authenticate(verifier, logg, next, w, r, token)
		})
	}
}

// OptionalAuth lets requests without an Authorization header through anonymously.
// A header that is present must still verify.
func OptionalAuth(verifier TokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
				next.ServeHTTP(w, r)
				return
			}
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage))
				return
			}
			authenticate(verifier, logg, next, w, r, token)
		})
	}
}

func authenticate(verifier TokenVerifier, logg *logger.Logger, next http.Handler, w http.ResponseWriter, r *http.Request, token string) {
	identity, err := verifier.VerifyToken(r.Context(), token)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage))
		return
	}

	userID := identity.UserID.String()
	ctx := WithUserID(r.Context(), userID)
	if logg != nil {
		ctx = logg.WithUserID(ctx, userID)
	}
	next.ServeHTTP(w, r.WithContext(ctx))
}

// BearerToken extracts the token from "Authorization: Bearer <token>". A bare token is accepted too.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	if strings.EqualFold(raw, "bearer") {
		return ""
	}
	return raw
}
