package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/secure_banking_app/internal/adapters/database/memory"
	"github.com/SscSPs/secure_banking_app/internal/adapters/database/pgsql"
	"github.com/SscSPs/secure_banking_app/internal/adapters/events"
	"github.com/SscSPs/secure_banking_app/internal/adapters/events/kafka"
	"github.com/SscSPs/secure_banking_app/internal/adapters/risk"
	portsrepo "github.com/SscSPs/secure_banking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/internal/core/services"
	"github.com/SscSPs/secure_banking_app/internal/handlers"
	"github.com/SscSPs/secure_banking_app/internal/middleware"
	"github.com/SscSPs/secure_banking_app/internal/platform/config"
	"github.com/SscSPs/secure_banking_app/internal/utils"
	"github.com/SscSPs/secure_banking_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Secure Banking API
// @version 1.0
// @description Account registration, transfers screened by rule checks and a risk scorer, and ledger history.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := setupStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis not reachable, cache and limiter will degrade", slog.String("error", err.Error()))
		}
	}

	scorer, err := setupScorer(cfg, redisClient, logger)
	if err != nil {
		logger.Error("Failed to initialize risk scorer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	publisher, closePublisher := setupPublisher(cfg, logger)
	defer closePublisher()

	serviceContainer, err := services.NewServiceContainer(cfg, repos, scorer, publisher)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authLimiter, err := middleware.NewLimiter(cfg.AuthRateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, authLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// setupStore opens the configured store. The postgres store is migrated before use.
func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// setupScorer builds the configured risk scorer and puts the Redis cache in front when available.
func setupScorer(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) (portssvc.RiskScorer, error) {
	var scorer portssvc.RiskScorer
	switch cfg.RiskScorer {
	case config.RiskScorerHTTP:
		httpCfg := risk.HTTPConfigDefaults()
		httpCfg.URL = cfg.RiskScorerURL
		httpCfg.Timeout = cfg.RiskScorerTimeout
		s, err := risk.NewHTTPScorer(httpCfg, nil, logger)
		if err != nil {
			return nil, err
		}
		scorer = s
	default:
		s, err := risk.NewLinearScorer(cfg.RiskModelWeights, cfg.RiskModelBias)
		if err != nil {
			return nil, err
		}
		scorer = s
	}
	logger.Info("Risk scorer configured", slog.String("kind", cfg.RiskScorer))

	if redisClient == nil {
		return scorer, nil
	}
	cacheCfg := risk.CacheConfigDefaults()
	cacheCfg.TTL = cfg.RiskCacheTTL
	return risk.NewCachedScorer(scorer, redisClient, cacheCfg, logger)
}

func setupPublisher(cfg *config.Config, logger *slog.Logger) (portssvc.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, ledger events go to the log")
		return events.NewLogPublisher(logger), func() {}
	}
	p, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("Kafka publisher unavailable, ledger events go to the log", slog.String("error", err.Error()))
		return events.NewLogPublisher(logger), func() {}
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Error("Failed to close Kafka publisher", slog.String("error", err.Error()))
		}
	}
}
