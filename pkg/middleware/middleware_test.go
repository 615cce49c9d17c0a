package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testSecret = "middleware-secret"

type stubSessions struct {
	valid map[uuid.UUID]uuid.UUID
	err   error
}

func (s *stubSessions) Create(context.Context, *entity.Session) error { return nil }

func (s *stubSessions) FindValidSession(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	userID, ok := s.valid[id]
	if !ok {
		return nil, nil
	}
	return &entity.Session{BaseSimple: entity.BaseSimple{ID: id}, UserID: userID}, nil
}

func (s *stubSessions) Revoke(context.Context, uuid.UUID) error                { return nil }
func (s *stubSessions) RevokeAllUserSessions(context.Context, uuid.UUID) error { return nil }
func (s *stubSessions) CleanExpiredSessions(context.Context) error             { return nil }

// stubUsers holds the current role of each active user.
type stubUsers struct {
	roles map[uuid.UUID]entity.UserRole
	err   error
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	role, ok := s.roles[id]
	if !ok {
		return nil, nil
	}
	return &entity.User{Base: entity.Base{ID: id}, Role: role, IsActive: true}, nil
}

func signedToken(t *testing.T, userID, sessionID uuid.UUID, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, userID, role, sessionID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		role, _ := utils.GetRoleFromContext(r.Context())
		w.Write([]byte(userID.String() + " " + role))
	})
}

func TestAuth(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	sessions := &stubSessions{valid: map[uuid.UUID]uuid.UUID{sessionID: userID}}
	users := &stubUsers{roles: map[uuid.UUID]entity.UserRole{userID: entity.RoleClient}}
	handler := Auth(testSecret, sessions, users, zap.NewNop())(whoAmI())

	revoked := signedToken(t, userID, uuid.New(), "CLIENT")
	otherSecret, _ := utils.GenerateToken("other", userID, "CLIENT", sessionID, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong signature", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"revoked session", "Bearer " + revoked, http.StatusUnauthorized},
		{"valid", "Bearer " + signedToken(t, userID, sessionID, "CLIENT"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Body.String() != userID.String()+" CLIENT" {
				t.Fatalf("unexpected context %q", rec.Body.String())
			}
		})
	}
}

func TestAuthSessionLookupFailure(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	sessions := &stubSessions{err: errors.New("db down")}
	handler := Auth(testSecret, sessions, &stubUsers{}, zap.NewNop())(whoAmI())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, userID, sessionID, "CLIENT"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAuthUsesStoredRole(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	sessions := &stubSessions{valid: map[uuid.UUID]uuid.UUID{sessionID: userID}}
	// Promoted after the token was issued.
	users := &stubUsers{roles: map[uuid.UUID]entity.UserRole{userID: entity.RoleOwner}}
	handler := Auth(testSecret, sessions, users, zap.NewNop())(RequireRole(zap.NewNop(), "OWNER")(whoAmI()))

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, userID, sessionID, "CLIENT"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != userID.String()+" OWNER" {
		t.Fatalf("unexpected context %q", rec.Body.String())
	}
}

func TestAuthRejectsMissingUser(t *testing.T) {
	userID, sessionID := uuid.New(), uuid.New()
	sessions := &stubSessions{valid: map[uuid.UUID]uuid.UUID{sessionID: userID}}
	token := "Bearer " + signedToken(t, userID, sessionID, "OWNER")

	for name, tc := range map[string]struct {
		users  *stubUsers
		status int
	}{
		"deleted":     {&stubUsers{}, http.StatusUnauthorized},
		"lookup fail": {&stubUsers{err: errors.New("db down")}, http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			handler := Auth(testSecret, sessions, tc.users, zap.NewNop())(whoAmI())
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set("Authorization", token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), "OWNER")(whoAmI())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/owner/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", rec.Code)
	}

	for role, want := range map[string]int{"CLIENT": http.StatusForbidden, "OWNER": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/owner/stats", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), role, uuid.New()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %s: expected %d, got %d", role, want, rec.Code)
		}
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis unavailable")
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimit(NewMemoryLimiter(2, time.Minute), false, zap.NewNop())(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected a separate budget per client, got %d", rec.Code)
	}
}

func TestRateLimitLimiterFailure(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	for failOpen, want := range map[bool]int{true: http.StatusOK, false: http.StatusServiceUnavailable} {
		rec := httptest.NewRecorder()
		RateLimit(brokenLimiter{}, failOpen, zap.NewNop())(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != want {
			t.Fatalf("failOpen=%v: expected %d, got %d", failOpen, want, rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:40000"
	if got := ClientIP(req); got != "192.168.1.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS("http://localhost:5173/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || called {
		t.Fatalf("preflight must be answered directly, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("missing allow origin header: %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origins get no CORS headers")
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
