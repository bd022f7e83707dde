package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/coopledger/internal/adapter/http/handler"
	"github.com/iho/coopledger/internal/adapter/http/middleware"
	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/auth"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
	"github.com/iho/coopledger/internal/usecase"
)

// DevUser is the principal attached to every request when authentication is disabled.
var DevUser = &domain.User{ID: "dev-admin", Email: "dev@localhost", Role: domain.RoleAdmin}

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DepositHandler        *handler.DepositHandler
	CapitalHandler        *handler.CapitalHandler
	MemberHandler         *handler.MemberHandler
	WalletHandler         *handler.WalletHandler
	ProofHandler          *handler.ProofHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HistoryHandler        *handler.HistoryHandler
	HealthHandler         *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	// JWTManager enables bearer authentication; nil runs every request as DevUser.
	JWTManager *auth.JWTManager

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	r.Use(middleware.RequestMetadata)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		} else {
			r.Use(middleware.StaticUser(DevUser))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		admin := middleware.RequireRole(domain.RoleAdmin)

		// Members
		r.Route("/members", func(r chi.Router) {
			r.With(admin).Post("/", cfg.MemberHandler.Register)
			r.With(admin).Get("/", cfg.MemberHandler.List)
			r.With(admin).Get("/{id}", cfg.MemberHandler.Get)
			r.With(admin).Post("/{id}/deactivate", cfg.MemberHandler.Deactivate)
			r.With(admin).Get("/{id}/history", cfg.HistoryHandler.Member)

			r.Get("/{id}/wallet", cfg.WalletHandler.Get)
			r.Get("/{id}/wallet/entries", cfg.WalletHandler.ListEntries)

			r.Get("/{id}/capitals/current", cfg.CapitalHandler.GetCurrentYear)
			r.Get("/{id}/capitals/current/paid", cfg.CapitalHandler.IsCurrentYearPaid)
			r.Get("/{id}/capitals/{year}", cfg.CapitalHandler.GetForMemberYear)
		})

		// Deposits
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", cfg.DepositHandler.Create)
			r.Get("/", cfg.DepositHandler.List)
			r.Post("/proofs", cfg.ProofHandler.Upload)
			r.Get("/{id}", cfg.DepositHandler.Get)
			r.With(admin).Post("/{id}/verify", cfg.DepositHandler.Verify)
			r.With(admin).Patch("/{id}/status", cfg.DepositHandler.UpdateStatus)
			r.With(admin).Delete("/{id}", cfg.DepositHandler.Delete)
			r.With(admin).Get("/{id}/history", cfg.HistoryHandler.Deposit)
		})

		// Capitals
		r.Route("/capitals", func(r chi.Router) {
			r.Use(admin)
			r.Post("/", cfg.CapitalHandler.Create)
			r.Post("/generate", cfg.CapitalHandler.Generate)
			r.Get("/", cfg.CapitalHandler.List)
			r.Get("/{id}", cfg.CapitalHandler.Get)
			r.Patch("/{id}/status", cfg.CapitalHandler.UpdateStatus)
			r.Post("/{id}/pay", cfg.CapitalHandler.MarkPaid)
			r.Delete("/{id}", cfg.CapitalHandler.Delete)
			r.Get("/{id}/history", cfg.HistoryHandler.Capital)
		})

		r.With(admin).Get("/admin/reconciliation", cfg.ReconciliationHandler.Report)
		r.With(admin).Get("/admin/audit", cfg.HistoryHandler.ListAudit)
	})

	return r
}
