package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/coopledger/internal/adapter/http"
	"github.com/iho/coopledger/internal/adapter/http/handler"
	"github.com/iho/coopledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/coopledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/coopledger/internal/adapter/repository/redis"
	"github.com/iho/coopledger/internal/adapter/storage"
	"github.com/iho/coopledger/internal/infrastructure/auth"
	"github.com/iho/coopledger/internal/infrastructure/config"
	"github.com/iho/coopledger/internal/infrastructure/eventpublisher"
	"github.com/iho/coopledger/internal/infrastructure/logger"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
	"github.com/iho/coopledger/internal/infrastructure/postgres"
	"github.com/iho/coopledger/internal/infrastructure/redis"
	"github.com/iho/coopledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLog zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLog); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	appLog.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLog.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	depositRepo := postgresRepo.NewDepositRepository(pool)
	capitalRepo := postgresRepo.NewCapitalRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	retrier := postgresRepo.NewRetrier(appLog, m)
	idGen := postgresRepo.NewULIDGenerator()
	directory := redisRepo.NewMemberDirectoryCache(memberRepo, redisClient, cfg.MemberCacheTTL, appLog)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	proofStore := storage.NewProofStore(cfg.ProofStorageDir, cfg.ProofMaxDimension, cfg.ProofMaxPixels, idGen)

	// Initialize use cases
	capitalUC := usecase.NewCapitalUseCase(txManager, capitalRepo, directory, outboxRepo, auditRepo, idGen, retrier, m, cfg.CapitalAnnualAmount)
	depositUC := usecase.NewDepositUseCase(txManager, depositRepo, walletRepo, directory, outboxRepo, auditRepo, idGen, retrier, m)
	memberUC := usecase.NewMemberUseCase(txManager, memberRepo, usecase.NewCapitalRegistrationHook(capitalUC), outboxRepo, auditRepo, idGen, m)
	walletUC := usecase.NewWalletUseCase(walletRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(memberRepo, walletRepo)
	historyUC := usecase.NewHistoryUseCase(auditRepo, outboxRepo)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DepositHandler:        handler.NewDepositHandler(depositUC),
		CapitalHandler:        handler.NewCapitalHandler(capitalUC),
		MemberHandler:         handler.NewMemberHandler(memberUC),
		WalletHandler:         handler.NewWalletHandler(walletUC),
		ProofHandler:          handler.NewProofHandler(proofStore, cfg.ProofMaxBytes, m),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HistoryHandler:        handler.NewHistoryHandler(historyUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		JWTManager:            jwtManagerFor(cfg),
		Metrics:               m,
		MetricsHandler:        promhttp.Handler(),
		Logger:                appLog,
	})
	if !cfg.AuthEnabled {
		appLog.Warn().Msg("authentication disabled: every request runs as the development admin")
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Sink:       eventpublisher.NewLogPublisher(appLog),
		Logger:     appLog,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		rateLimiter.RunCleanup(gctx, cfg.RateLimitCleanup)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// jwtManagerFor returns nil when authentication is disabled.
func jwtManagerFor(cfg *config.Config) *auth.JWTManager {
	if !cfg.AuthEnabled {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
}

func listenAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}

