package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"workflow-gateway/internal/config"
	"workflow-gateway/internal/db"
	apihttp "workflow-gateway/internal/http"
	"workflow-gateway/internal/llm"
	"workflow-gateway/internal/pdf"
	"workflow-gateway/internal/repository"
	"workflow-gateway/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini api key not configured; /query will fail until it is set")
	}

	var (
		docRepo     repository.DocumentRepository
		workflowRep repository.WorkflowRepository
		chatLogRepo repository.ChatLogRepository
		pinger      db.Pinger
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		docRepo = repository.NewPgDocumentRepository(pool)
		workflowRep = repository.NewPgWorkflowRepository(pool)
		chatLogRepo = repository.NewPgChatLogRepository(pool)
		pinger = pool
	} else {
		logger.Warn("database not configured; documents, workflows and chatlogs disabled")
	}

	var uploadLimiter service.UploadLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		}
		cancel()
		uploadLimiter = service.NewRedisUploadLimiter(redisClient, cfg.UploadRateWindow(), cfg.UploadRateLimit, logger)
	} else {
		uploadLimiter = service.NewMemoryUploadLimiter(cfg.UploadRateWindow(), cfg.UploadRateLimit)
	}

	httpClient := &http.Client{}
	llmClient := llm.NewGeminiClient(cfg.LLMBaseURL, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout(), httpClient, logger)

	querySvc := service.NewQueryService(service.QueryConfig{APIKey: cfg.GeminiAPIKey}, llmClient, logger)
	chatLogSvc := service.NewChatLogService(chatLogRepo)
	docSvc := service.NewDocumentService(docRepo, pdf.NewTextExtractor(cfg.MaxUploadBytes()), logger)
	workflowSvc := service.NewWorkflowService(workflowRep)

	router := apihttp.NewRouter(logger, apihttp.CORSConfig{
		AllowAllOrigins: cfg.AllowAllOrigins(),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	}, apihttp.Handlers{
		Query:     apihttp.NewQueryHandler(logger, querySvc, chatLogSvc),
		Documents: apihttp.NewDocumentHandler(logger, docSvc, uploadLimiter, cfg.MaxUploadBytes()),
		Workflows: apihttp.NewWorkflowHandler(logger, workflowSvc),
		ChatLogs:  apihttp.NewChatLogHandler(logger, chatLogSvc),
		Health:    apihttp.NewHealthHandler(logger, pinger),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
