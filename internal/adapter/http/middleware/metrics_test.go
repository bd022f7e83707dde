package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes deposit path",
			method:     http.MethodGet,
			path:       "/api/v1/deposits/ABC123",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewWithRegisterer(prometheus.NewRegistry())

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(m)(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			normalized := normalizePath(tc.path)
			counter := m.HTTPRequests.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "deposit path without suffix",
			input:    "/api/v1/deposits/ABC123",
			expected: "/api/v1/deposits/:id",
		},
		{
			name:     "deposit path with suffix",
			input:    "/api/v1/deposits/ABC123/verify",
			expected: "/api/v1/deposits/:id/verify",
		},
		{
			name:     "member capital for year",
			input:    "/api/v1/members/M1/capitals/2026",
			expected: "/api/v1/members/:id/capitals/:year",
		},
		{
			name:     "member current capital",
			input:    "/api/v1/members/M1/capitals/current/paid",
			expected: "/api/v1/members/:id/capitals/current/paid",
		},
		{
			name:     "fixed sub-route",
			input:    "/api/v1/capitals/generate",
			expected: "/api/v1/capitals/generate",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/admin/reconciliation",
			expected: "/api/v1/admin/reconciliation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
