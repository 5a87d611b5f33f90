package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flo-app/flo-backend/internal/users"
	pkgAuth "github.com/flo-app/flo-backend/pkg/auth"
	"github.com/flo-app/flo-backend/pkg/auth/session"
	"github.com/flo-app/flo-backend/pkg/config"
	"github.com/flo-app/flo-backend/pkg/db"
	"github.com/flo-app/flo-backend/pkg/db/models"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/logger"
	"github.com/flo-app/flo-backend/pkg/security"
	"github.com/google/uuid"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidTokenMessage       = "invalid token"
	tokenRequiredMessage      = "token required"
	userNotFoundMessage       = "user not found"
	accountInactiveMessage    = "account is deactivated"
)

// Service covers registration, login and token lifecycle.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, cols map[string]any) (*models.User, error)
}

type sessionManager interface {
	Start(ctx context.Context) (session.Session, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Session, error)
	Revoke(ctx context.Context, accessID string) error
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	users       userRepository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:       params.UserRepo,
		sessions:    params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, accountInactiveMessage)
	}
	s.upgradePasswordHash(ctx, user, req.Password)

	sess, err := s.sessions.Start(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    sess.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		Token:        token,
		RefreshToken: sess.RefreshToken,
		User:         users.FromModel(user),
	}, nil
}

// upgradePasswordHash re-hashes with the current argon2 parameters after a successful login.
// Failures are logged and retried on the next login.
func (s *service) upgradePasswordHash(ctx context.Context, user *models.User, password string) {
	if !security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", user.ID.String()), fmt.Sprintf("password rehash skipped: %v", err))
		return
	}
	if _, err := s.users.Update(ctx, user.ID, map[string]any{"password_hash": hash}); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", user.ID.String()), fmt.Sprintf("password rehash not stored: %v", err))
		return
	}
	user.PasswordHash = hash
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseAllowExpired(accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.requireActive(ctx, claims.UserID, claims.ID); err != nil {
		return nil, err
	}

	next, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		JTI:    next.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &TokenPair{Token: token, RefreshToken: next.RefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.parseAllowExpired(accessToken)
	if err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// VerifyToken checks signature, issuer, expiry and that the session was not revoked.
func (s *service) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, tokenRequiredMessage)
	}

	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage)
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}

	live, err := s.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	if err := s.requireActive(ctx, claims.UserID, claims.ID); err != nil {
		return nil, err
	}

	return &Identity{UserID: claims.UserID, AccessID: claims.ID}, nil
}

// requireActive rejects tokens whose owner is gone or deactivated and drops their session.
func (s *service) requireActive(ctx context.Context, userID uuid.UUID, accessID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup token owner")
	}
	if user.IsActive {
		return nil
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", userID.String()), fmt.Sprintf("revoke inactive session: %v", err))
	}
	return pkgerrors.New(pkgerrors.CodeUnauthorized, accountInactiveMessage)
}

func (s *service) parseAllowExpired(token string) (*pkgAuth.AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, tokenRequiredMessage)
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage)
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage)
	}
	return claims, nil
}
