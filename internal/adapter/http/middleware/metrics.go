package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

// idCollections are path segments followed by a resource ID.
var idCollections = map[string]bool{
	"members":  true,
	"deposits": true,
	"capitals": true,
}

// fixedSegments are literal sub-routes that must not be treated as IDs.
var fixedSegments = map[string]bool{
	"proofs":   true,
	"generate": true,
	"current":  true,
}

// Metrics records request counts and latency on m.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			path := routePattern(r)
			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern prefers chi's matched route and falls back to normalizePath.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// normalizePath replaces IDs and years in URL paths to avoid high cardinality.
// /api/v1/members/01ABC/capitals/2026 -> /api/v1/members/:id/capitals/:year
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		seg := segments[i]
		if seg == "" || fixedSegments[seg] || !idCollections[segments[i-1]] {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil && segments[i-1] == "capitals" {
			segments[i] = ":year"
			continue
		}
		segments[i] = ":id"
	}
	return strings.Join(segments, "/")
}
