package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/hireloop/internal/events"
	"github.com/yourorg/hireloop/internal/featureflags"
	"github.com/yourorg/hireloop/internal/handler"
	"github.com/yourorg/hireloop/internal/identity"
	"github.com/yourorg/hireloop/internal/observability/logging"
	"github.com/yourorg/hireloop/internal/observability/tracing"
	"github.com/yourorg/hireloop/internal/repository"
	"github.com/yourorg/hireloop/internal/sanitize"
	"github.com/yourorg/hireloop/internal/scoring"
	"github.com/yourorg/hireloop/internal/security"
	"github.com/yourorg/hireloop/internal/security/audit"
	"github.com/yourorg/hireloop/internal/security/auth"
	"github.com/yourorg/hireloop/internal/security/middleware"
	"github.com/yourorg/hireloop/internal/security/ratelimit"
	"github.com/yourorg/hireloop/internal/service"
	"github.com/yourorg/hireloop/internal/worker"
	"github.com/yourorg/hireloop/pkg/cache"
	"github.com/yourorg/hireloop/pkg/config"
	"github.com/yourorg/hireloop/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewLogger(cfg.LogLevel)
	log.Info("starting hireloop server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, "hireloop", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	pool, err := database.NewConnectionPool(ctx, cfg.DatabaseURL, database.PoolConfig{}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(pool.GetDB(), log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthChecks := map[string]handler.Pinger{"postgres": pool}

	var listingCache cache.Store
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL, log)
		if err != nil {
			log.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		healthChecks["redis"] = redisCache
		listingCache = redisCache
	} else {
		log.Info("REDIS_URL not set, using in-process listing cache")
		listingCache = cache.NewMemory()
	}

	store := repository.NewStore(pool.GetDB(), log)
	sanitizer := sanitize.New()

	engine := scoring.NewEngine()
	if len(cfg.ScoringKeywords) > 0 {
		engine = scoring.NewEngineWithKeywords(cfg.ScoringKeywords)
		log.Info("scoring vocabulary overridden", slog.Int("keywords", len(cfg.ScoringKeywords)))
	}

	directory := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey, log)
	tenantService := service.NewTenantService(store, directory, log)

	streamEnabled := featureflags.EnabledDefault("pipeline_stream", true)
	hub := events.NewHub(log)
	var notifier service.StageNotifier
	if streamEnabled {
		notifier = hub
	}

	applicationService := service.NewApplicationService(store, engine, sanitizer, notifier, log)
	jobService := service.NewJobService(store, listingCache, sanitizer, log)

	tokenManager := auth.NewTokenManager(cfg.StaffJWTSecret, cfg.StaffJWTIssuer)
	sessionManager := auth.NewSessionManager(cfg.CandidateSessionSecret, cfg.CandidateSessionMaxAge, cfg.SecureCookies)
	authz := security.NewAuthorizationService(log)
	auditLogger := audit.NewLogger(log)
	portalLimiter := ratelimit.NewLimiter(cfg.PortalRateLimitRPS, cfg.PortalRateLimitBurst)
	defer portalLimiter.Stop()

	router := handler.NewRouter(handler.RouterDeps{
		Jobs:         handler.NewJobHandler(jobService, store.Tenants(), auditLogger, log),
		Apply:        handler.NewApplyHandler(applicationService, sessionManager, log),
		Applications: handler.NewApplicationHandler(applicationService, auditLogger, log),
		Portal:       handler.NewPortalHandler(applicationService, sessionManager, log),
		Events:       handler.NewEventsHandler(hub, tokenManager, tenantService, cfg.CORSAllowedOrigins, log),
		Health:       handler.NewHealthHandler(healthChecks, log),

		Authz:       authz,
		StaffAuth:   middleware.StaffAuth(tokenManager, tenantService, log),
		PortalLimit: middleware.RateLimit(portalLimiter, log),
		Audit:       middleware.Audit(auditLogger),

		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PipelineStream:     streamEnabled,

		Logger: log,
	})

	cleanupWorker := worker.NewCleanupWorker(store, log, cfg.CleanupInterval, cfg.SlotGracePeriod)
	go cleanupWorker.Start(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(router, "hireloop"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("pipeline_stream", streamEnabled),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	log.Info("server stopped")
}
