package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/flo-app/flo-backend/internal/auth"
	"github.com/flo-app/flo-backend/internal/reports"
	"github.com/flo-app/flo-backend/internal/users"
	"github.com/flo-app/flo-backend/pkg/config"
	pkgerrors "github.com/flo-app/flo-backend/pkg/errors"
	"github.com/flo-app/flo-backend/pkg/metrics"
)

const validToken = "valid-token"

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type fakeRedis struct {
	stubPinger
	mu      sync.Mutex
	values  map[string]string
	counts  map[string]int64
	limited bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = toString(value)
	return true, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = toString(value)
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeRedis) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (f *fakeRedis) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	if f.limited {
		return false, limit + 1, nil
	}
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

type stubAuthService struct {
	userID uuid.UUID
}

func (s stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), Name: req.Name, Email: req.Email}, nil
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{Token: validToken, RefreshToken: "refresh"}, nil
}

func (s stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	return &auth.TokenPair{Token: validToken, RefreshToken: "refresh-2"}, nil
}

func (s stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

func (s stubAuthService) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	if token != validToken {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	return &auth.Identity{UserID: s.userID, AccessID: "access-id"}, nil
}

type stubUsersService struct{}

func (stubUsersService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, id uuid.UUID, req users.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (stubUsersService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubReportsService struct {
	mu        sync.Mutex
	created   int
	submitter *uuid.UUID
}

func (s *stubReportsService) Create(ctx context.Context, req reports.CreateReportRequest, submitterID *uuid.UUID) (*reports.CreateReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	s.submitter = submitterID
	return &reports.CreateReportResponse{ProtocolNumber: "RPT1700000000000ABCDE", ReportID: uuid.New(), Message: "report submitted successfully"}, nil
}

func (s *stubReportsService) List(ctx context.Context, params reports.ListParams) (*reports.ListResponse, error) {
	return &reports.ListResponse{Reports: []reports.ReportDTO{}, CurrentPage: 1}, nil
}

func (s *stubReportsService) GetByID(ctx context.Context, id uuid.UUID) (*reports.ReportDTO, error) {
	return &reports.ReportDTO{ID: id}, nil
}

func (s *stubReportsService) ListByUser(ctx context.Context, userID uuid.UUID) ([]reports.ReportDTO, error) {
	return []reports.ReportDTO{}, nil
}

func (s *stubReportsService) UpdateStatus(ctx context.Context, id uuid.UUID, req reports.UpdateStatusRequest) (*reports.ReportDTO, error) {
	return &reports.ReportDTO{ID: id}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.AuthRateLimit = config.AuthRateLimitConfig{
		LoginWindow:        time.Minute,
		LoginEmailLimit:    2,
		LoginIPLimit:       10,
		RegisterWindow:     time.Minute,
		RegisterEmailLimit: 2,
		RegisterIPLimit:    10,
	}
	cfg.Idempotency.TTL = time.Hour
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	return cfg
}

type testRouter struct {
	handler  http.Handler
	redis    *fakeRedis
	reports  *stubReportsService
	userID   uuid.UUID
	registry *prometheus.Registry
}

func newTestRouter(t *testing.T, dbErr error) *testRouter {
	t.Helper()
	reg := prometheus.NewRegistry()
	rt := &testRouter{
		redis:    newFakeRedis(),
		reports:  &stubReportsService{},
		userID:   uuid.New(),
		registry: reg,
	}
	rt.handler = NewRouter(
		testConfig(),
		nil,
		reg,
		metrics.NewHTTPMetrics(reg),
		stubPinger{err: dbErr},
		rt.redis,
		stubAuthService{userID: rt.userID},
		stubUsersService{},
		rt.reports,
	)
	return rt
}

func (rt *testRouter) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)
	return rec
}

func bearer() map[string]string {
	return map[string]string{"Authorization": "Bearer " + validToken}
}

func TestHealthRoutes(t *testing.T) {
	rt := newTestRouter(t, nil)
	if rec := rt.do(http.MethodGet, "/health/live", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	if rec := rt.do(http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", rec.Code)
	}

	down := newTestRouter(t, errors.New("db down"))
	if rec := down.do(http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with db down: expected 503 got %d", rec.Code)
	}
}

func TestPublicRoutes(t *testing.T) {
	rt := newTestRouter(t, nil)

	if rec := rt.do(http.MethodGet, "/api/v1/contacts", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("contacts: expected 200 got %d", rec.Code)
	}
	register := `{"name":"Maria","email":"maria@example.com","password":"segredo123"}`
	if rec := rt.do(http.MethodPost, "/api/v1/users", register, nil); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	login := `{"email":"maria@example.com","password":"segredo123"}`
	if rec := rt.do(http.MethodPost, "/api/v1/auth/login", login, nil); rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", rec.Code)
	}
}

func TestGuardedRoutesRequireToken(t *testing.T) {
	rt := newTestRouter(t, nil)
	id := uuid.New().String()
	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/users/me", ""},
		{http.MethodPut, "/api/v1/users/" + id, `{"name":"x"}`},
		{http.MethodDelete, "/api/v1/users/" + id, ""},
		{http.MethodGet, "/api/v1/reports", ""},
		{http.MethodGet, "/api/v1/reports/" + id, ""},
		{http.MethodGet, "/api/v1/reports/user/" + id, ""},
		{http.MethodPut, "/api/v1/reports/" + id + "/status", `{"status":"Concluído"}`},
	}
	for _, tc := range cases {
		if rec := rt.do(tc.method, tc.path, tc.body, nil); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401 got %d", tc.method, tc.path, rec.Code)
		}
		if rec := rt.do(tc.method, tc.path, tc.body, map[string]string{"Authorization": "Bearer forged"}); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s with bad token: expected 401 got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestGuardedRoutesWithToken(t *testing.T) {
	rt := newTestRouter(t, nil)
	id := uuid.New().String()

	if rec := rt.do(http.MethodGet, "/api/v1/users/me", "", bearer()); rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200 got %d", rec.Code)
	}
	if rec := rt.do(http.MethodGet, "/api/v1/reports?page=1&limit=10", "", bearer()); rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", rec.Code)
	}
	if rec := rt.do(http.MethodGet, "/api/v1/reports/user/"+id, "", bearer()); rec.Code != http.StatusOK {
		t.Fatalf("by user: expected 200 got %d", rec.Code)
	}
	if rec := rt.do(http.MethodPut, "/api/v1/users/"+rt.userID.String(), `{"city":"Olinda"}`, bearer()); rec.Code != http.StatusOK {
		t.Fatalf("update self: expected 200 got %d", rec.Code)
	}
	if rec := rt.do(http.MethodDelete, "/api/v1/users/"+id, "", bearer()); rec.Code != http.StatusForbidden {
		t.Fatalf("deactivate other: expected 403 got %d", rec.Code)
	}
}

func TestReportCreateIsPublicAndOptionallyAttributed(t *testing.T) {
	rt := newTestRouter(t, nil)
	body := `{"type":"Outro","description":"Relato"}`

	if rec := rt.do(http.MethodPost, "/api/v1/reports", body, nil); rec.Code != http.StatusCreated {
		t.Fatalf("anonymous create: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if rt.reports.submitter != nil {
		t.Fatal("expected no submitter without a token")
	}

	if rec := rt.do(http.MethodPost, "/api/v1/reports", body, bearer()); rec.Code != http.StatusCreated {
		t.Fatalf("attributed create: expected 201 got %d", rec.Code)
	}
	if rt.reports.submitter == nil || *rt.reports.submitter != rt.userID {
		t.Fatalf("expected submitter %s got %v", rt.userID, rt.reports.submitter)
	}

	if rec := rt.do(http.MethodPost, "/api/v1/reports", body, map[string]string{"Authorization": "Bearer forged"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token create: expected 401 got %d", rec.Code)
	}
}

func TestReportCreateReplaysIdempotencyKey(t *testing.T) {
	rt := newTestRouter(t, nil)
	body := `{"type":"Outro","description":"Relato"}`
	headers := map[string]string{"Idempotency-Key": "abc-123"}

	first := rt.do(http.MethodPost, "/api/v1/reports", body, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("first: expected 201 got %d", first.Code)
	}
	second := rt.do(http.MethodPost, "/api/v1/reports", body, headers)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: expected 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body mismatch:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	if rt.reports.created != 1 {
		t.Fatalf("expected one create, got %d", rt.reports.created)
	}

	reused := rt.do(http.MethodPost, "/api/v1/reports", `{"type":"Outro","description":"Outro relato"}`, headers)
	if reused.Code != http.StatusConflict {
		t.Fatalf("reused key: expected 409 got %d", reused.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	rt := newTestRouter(t, nil)
	login := `{"email":"maria@example.com","password":"segredo123"}`

	for i := 0; i < 2; i++ {
		if rec := rt.do(http.MethodPost, "/api/v1/auth/login", login, nil); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, rec.Code)
		}
	}
	rec := rt.do(http.MethodPost, "/api/v1/auth/login", login, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rt := newTestRouter(t, nil)
	rt.do(http.MethodGet, "/api/v1/contacts", "", nil)

	rec := rt.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/api/v1/contacts",status="200"} 1`) {
		t.Fatalf("expected contacts request counted, got:\n%s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	rt := newTestRouter(t, nil)
	rec := rt.do(http.MethodOptions, "/api/v1/reports", "", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": http.MethodPost,
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
}
