package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flo-app/flo-backend/internal/auth"
	"github.com/flo-app/flo-backend/internal/users"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	lastLogin    auth.LoginRequest
	lastRegister auth.RegisterRequest
	lastAccess   string
	lastRefresh  string
	loginErr     error
	registerErr  error
	logoutErr    error
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.lastRegister = req
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &users.UserDTO{ID: uuid.New(), Name: req.Name, Email: req.Email, IsActive: true}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastLogin = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.LoginResponse{Token: "access", RefreshToken: "refresh", User: &users.UserDTO{Email: req.Email}}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	s.lastAccess = accessToken
	s.lastRefresh = refreshToken
	return &auth.TokenPair{Token: "new-access", RefreshToken: "new-refresh"}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) error {
	s.lastAccess = accessToken
	return s.logoutErr
}

func (s *stubAuthService) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
}

func TestAuthLogin(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"maria@example.com","password":"segredo123"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var body auth.LoginResponse
	decodeEnvelope(t, rec, &body)
	if body.Token != "access" || body.RefreshToken != "refresh" {
		t.Fatalf("unexpected body %+v", body)
	}
	if svc.lastLogin.Email != "maria@example.com" {
		t.Fatalf("unexpected login request %+v", svc.lastLogin)
	}
}

func TestAuthLoginValidation(t *testing.T) {
	svc := &stubAuthService{}
	for name, payload := range map[string]string{
		"missing password": `{"email":"maria@example.com"}`,
		"bad email":        `{"email":"maria","password":"x"}`,
		"unknown field":    `{"email":"maria@example.com","password":"x","admin":true}`,
		"malformed":        `{`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			AuthLogin(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
		})
	}
}

func TestAuthLoginMapsServiceErrors(t *testing.T) {
	cases := map[pkgerrors.Code]int{
		pkgerrors.CodeNotFound:     http.StatusNotFound,
		pkgerrors.CodeUnauthorized: http.StatusUnauthorized,
	}
	for code, status := range cases {
		svc := &stubAuthService{loginErr: pkgerrors.New(code, "nope")}
		rec := httptest.NewRecorder()
		AuthLogin(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"maria@example.com","password":"x"}`)))
		if rec.Code != status {
			t.Fatalf("code %s: expected %d got %d", code, status, rec.Code)
		}
	}
}

func TestAuthRegister(t *testing.T) {
	svc := &stubAuthService{}
	payload := `{"name":"Maria","email":"maria@example.com","password":"segredo123","city":"Recife"}`
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(payload)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "segredo123") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password leaked in response: %s", rec.Body.String())
	}
	if svc.lastRegister.City == nil || *svc.lastRegister.City != "Recife" {
		t.Fatalf("expected city forwarded, got %+v", svc.lastRegister)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	svc := &stubAuthService{}
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"name":"Maria","email":"maria@example.com","password":"123"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.lastRegister.Email != "" {
		t.Fatal("service must not be called for invalid input")
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc := &stubAuthService{registerErr: pkgerrors.New(pkgerrors.CodeValidation, "email already registered")}
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"name":"Maria","email":"maria@example.com","password":"segredo123"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Error == nil || env.Error.Message != "email already registered" {
		t.Fatalf("unexpected error %+v", env.Error)
	}
}

func TestAuthRefresh(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Authorization", "Bearer old-access")
	rec := httptest.NewRecorder()

	AuthRefresh(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastAccess != "old-access" || svc.lastRefresh != "old-refresh" {
		t.Fatalf("unexpected tokens forwarded: %q %q", svc.lastAccess, svc.lastRefresh)
	}
	var pair auth.TokenPair
	decodeEnvelope(t, rec, &pair)
	if pair.Token != "new-access" || pair.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer access")
	rec := httptest.NewRecorder()

	AuthLogout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastAccess != "access" {
		t.Fatalf("expected token forwarded, got %q", svc.lastAccess)
	}
}

func TestAuthHandlersWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthLogin(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
