package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/adapters/datasource"
	"github.com/neurovia/neurovia-engine/pkg/cache"
	"github.com/neurovia/neurovia-engine/pkg/config"
	"github.com/neurovia/neurovia-engine/pkg/database"
	"github.com/neurovia/neurovia-engine/pkg/handlers"
	"github.com/neurovia/neurovia-engine/pkg/llm"
	"github.com/neurovia/neurovia-engine/pkg/middleware"
	"github.com/neurovia/neurovia-engine/pkg/repositories"
	"github.com/neurovia/neurovia-engine/pkg/services"
	"github.com/neurovia/neurovia-engine/pkg/sqlfix"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to engine database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.URL(), logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	executor, err := datasource.NewMySQLExecutor(&datasource.Config{
		DSN:          cfg.Warehouse.DSN(),
		MaxOpenConns: cfg.Warehouse.MaxOpenConns,
		RowLimit:     cfg.Warehouse.RowLimit,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open warehouse connection", zap.Error(err))
	}
	defer func() { _ = executor.Close() }()

	if err := executor.TestConnection(ctx); err != nil {
		logger.Warn("Warehouse is not reachable at startup", zap.Error(err))
	}

	llmCfg := &llm.Config{
		Provider:          cfg.LLM.Provider,
		Endpoint:          cfg.LLM.Endpoint,
		Model:             cfg.LLM.Model,
		APIKey:            cfg.LLM.APIKey,
		EmbeddingEndpoint: cfg.LLM.EmbeddingEndpoint,
		EmbeddingModel:    cfg.LLM.EmbeddingModel,
		EmbeddingAPIKey:   cfg.LLM.EmbeddingAPIKey,
	}

	llmClient, err := llm.NewFromConfig(llmCfg, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	embedder, err := llm.NewEmbedderFromConfig(llmCfg, llmClient, logger)
	if err != nil {
		logger.Fatal("Failed to create embedding client", zap.Error(err))
	}

	cacheRepo := repositories.NewCacheRepository(db)
	chatLogRepo := repositories.NewChatLogRepository(db)

	queryCache := cache.New(cacheRepo, embedder, cfg.LLM.EmbeddingModel, cfg.Cache.Threshold, logger)
	chain := sqlfix.NewChain(logger)

	assistant := services.NewAssistantService(
		llmClient, queryCache, chain, executor, chatLogRepo,
		cfg.LLM.Temperature, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAskHandler(assistant, logger).RegisterRoutes(mux)
	handlers.NewFeedbackHandler(assistant, logger).RegisterRoutes(mux)
	handlers.NewHistoryHandler(assistant, logger).RegisterRoutes(mux)
	handlers.NewStatsHandler(assistant, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting neurovia-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version),
			zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
