package auth

import (
	"context"
	"testing"
	"time"

	"github.com/flo-app/flo-backend/internal/users"
	"github.com/flo-app/flo-backend/pkg/auth/session"
	"github.com/flo-app/flo-backend/pkg/config"
	"github.com/flo-app/flo-backend/pkg/db/models"
	"github.com/flo-app/flo-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	testJWTConfig = config.JWTConfig{
		Secret:                 "test-secret-0123456789",
		Issuer:                 "flo",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 120,
	}
	testPasswordConfig = config.PasswordConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		MinLength:        6,
	}
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type stubUserRepository struct {
	data      map[string]*models.User
	created   *models.User
	createErr error
	findErr   error
	updateErr error
	updates   []map[string]any
}

func newStubUserRepository(seed ...*models.User) *stubUserRepository {
	repo := &stubUserRepository{data: map[string]*models.User{}}
	for _, u := range seed {
		repo.data[u.Email] = u
	}
	return repo
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, u := range s.data {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	s.data[user.Email] = user
	s.created = user
	return user, nil
}

func (s *stubUserRepository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) (*models.User, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updates = append(s.updates, cols)
	for _, u := range s.data {
		if u.ID != id {
			continue
		}
		if hash, ok := cols["password_hash"].(string); ok {
			u.PasswordHash = hash
		}
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	sessions  map[string]string
	revoked   []string
	startErr  error
	checkErr  error
	rotateErr error
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Start(ctx context.Context) (session.Session, error) {
	if s.startErr != nil {
		return session.Session{}, s.startErr
	}
	sess := session.Session{AccessID: uuid.NewString(), RefreshToken: uuid.NewString()}
	s.sessions[sess.AccessID] = sess.RefreshToken
	return sess, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (session.Session, error) {
	if s.rotateErr != nil {
		return session.Session{}, s.rotateErr
	}
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return session.Session{}, session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	return s.Start(ctx)
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func (s *stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	_, ok := s.sessions[accessID]
	return ok, nil
}

func buildTestService(t *testing.T, repo *stubUserRepository, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
		Now:            func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func newActiveUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Name:         "Maria",
		Email:        email,
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
}
