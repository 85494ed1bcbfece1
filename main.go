package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/auth"
	"github.com/retinue-solutions/triage-engine/pkg/config"
	"github.com/retinue-solutions/triage-engine/pkg/database"
	"github.com/retinue-solutions/triage-engine/pkg/documents"
	"github.com/retinue-solutions/triage-engine/pkg/handlers"
	"github.com/retinue-solutions/triage-engine/pkg/llm"
	"github.com/retinue-solutions/triage-engine/pkg/middleware"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
	"github.com/retinue-solutions/triage-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		// No logger yet; fall back to a bare production logger.
		zap.Must(zap.NewProduction()).Fatal("Failed to load config", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("redis", cfg.Redis.Host != ""))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Connect(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sqlDB := db.SQLDB()
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	// Redis is optional; nil disables the cross-instance turn lock.
	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	triageRepo := repositories.NewTriageRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	specRepo := repositories.NewSpecificationRepository(db)
	supplierRepo := repositories.NewSupplierRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// LLM client
	var recorder llm.ConversationRecorder
	if cfg.LLM.RecordConversations {
		asyncRecorder := llm.NewAsyncConversationRecorder(repositories.NewLLMConversationRepository(db), logger, 0)
		defer asyncRecorder.Close()
		recorder = asyncRecorder
	}
	llmClient, err := llm.NewClientFromConfig(&cfg.LLM, recorder, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	extractor := documents.NewExtractor(cfg.Upload.MaxBytes, cfg.Upload.MaxChars)
	locker := services.NewTurnLocker(redisClient, time.Duration(cfg.Chat.TurnLockTTLSeconds)*time.Second, logger)

	// Services
	triageService := services.NewTriageService(triageRepo, conversationRepo, logger)
	chatService := services.NewChatService(triageRepo, conversationRepo, llmClient, extractor, locker, logger)
	recommendationService := services.NewRecommendationService(triageRepo, conversationRepo, llmClient, logger)
	specService := services.NewSpecificationService(specRepo, triageRepo, conversationRepo, llmClient, logger)
	supplierService := services.NewSupplierService(supplierRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	if n, err := supplierService.SeedIfEmpty(ctx); err != nil {
		logger.Error("Failed to seed suppliers", zap.Error(err))
	} else if n > 0 {
		logger.Info("Seeded suppliers", zap.Int("count", n))
	}

	// Auth
	sessions := auth.NewSessionStore(cfg.Auth.SessionSecret, cfg.Auth.SecureCookies)
	var jwksClient auth.JWKSClientInterface
	if cfg.Auth.EnableVerification || cfg.IsLocal() {
		client, err := auth.NewJWKSClient(ctx, &auth.JWKSConfig{
			EnableVerification: cfg.Auth.EnableVerification,
			JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
		})
		if err != nil {
			logger.Fatal("Failed to create JWKS client", zap.Error(err))
		}
		defer client.Close()
		jwksClient = client
	}
	authService := auth.NewAuthService(jwksClient, sessions, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(sessions, userService, logger).RegisterRoutes(mux)
	handlers.NewTriageHandler(triageService, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(chatService, extractor, logger).RegisterRoutes(mux)
	handlers.NewRecommendationHandler(recommendationService, logger).RegisterRoutes(mux)
	handlers.NewSpecificationHandler(specService, logger).RegisterRoutes(mux)
	handlers.NewSuppliersHandler(supplierService, logger).RegisterRoutes(mux)

	handler := middleware.Chain(mux,
		authMiddleware.WithPrincipal,
		middleware.RequestLogger(logger),
		middleware.Metrics,
	)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting triage-engine", zap.String("addr", server.Addr), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.IsLocal() {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}
