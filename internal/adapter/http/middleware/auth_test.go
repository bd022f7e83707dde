package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/auth"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

func TestAuthMiddleware(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "coopledger", time.Hour)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	token, err := manager.Generate(&domain.User{ID: "m1", Email: "m1@example.com", Role: domain.RoleMember})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var seen *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = domain.UserFromContext(r.Context())
	})
	handler := AuthMiddleware(manager, m)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deposits", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || seen == nil || seen.ID != "m1" || seen.Role != domain.RoleMember {
		t.Fatalf("expected authenticated member, got %d %+v", rr.Code, seen)
	}

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{name: "missing header", header: "", reason: "missing_header"},
		{name: "wrong scheme", header: "Basic abc", reason: "malformed_header"},
		{name: "bad token", header: "Bearer not-a-jwt", reason: "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/deposits", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if got := testutil.ToFloat64(m.AuthFailures.WithLabelValues(tt.reason)); got != 1 {
				t.Fatalf("expected one %s failure, got %v", tt.reason, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "member", user: &domain.User{ID: "m1", Role: domain.RoleMember}, want: http.StatusForbidden},
		{name: "admin", user: &domain.User{ID: "a1", Role: domain.RoleAdmin}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/capitals", nil)
			if tt.user != nil {
				req = req.WithContext(domain.ContextWithUser(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestStaticUser(t *testing.T) {
	admin := &domain.User{ID: "dev-admin", Role: domain.RoleAdmin}

	var seen *domain.User
	StaticUser(admin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = domain.UserFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if seen != admin {
		t.Fatalf("expected static user in context, got %+v", seen)
	}
}
