package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/assets"
	"github.com/assetops/ragline/internal/config"
	dbRedis "github.com/assetops/ragline/internal/db/redis"
	"github.com/assetops/ragline/internal/embedding"
	logpkg "github.com/assetops/ragline/internal/logger"
	"github.com/assetops/ragline/internal/metrics"
	"github.com/assetops/ragline/internal/registry"
	historyrepo "github.com/assetops/ragline/internal/repository/history"
	"github.com/assetops/ragline/internal/store/sqlite"
	chiTransport "github.com/assetops/ragline/internal/transport/chi"
	openaiChat "github.com/assetops/ragline/internal/transport/openai"
	"github.com/assetops/ragline/internal/usecase/chatbot"
	"github.com/assetops/ragline/internal/usecase/classify"
	"github.com/assetops/ragline/internal/usecase/execute"
	healthuc "github.com/assetops/ragline/internal/usecase/health"
	historyuc "github.com/assetops/ragline/internal/usecase/history"
	"github.com/assetops/ragline/internal/usecase/plan"
	raguc "github.com/assetops/ragline/internal/usecase/rag"
	"github.com/assetops/ragline/internal/version"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragline API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_path", cfg.Database.Path),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	// Relational store
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// History store
	kv, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create history store", zap.Error(err))
	}
	defer kv.Close()

	if err := kv.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("History store not ready", zap.Error(err))
	}
	logger.Info("Connected to history store")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Local embedding engine
	engine := embedding.New(embedding.Config{
		Dimensions: cfg.Embedding.Dimensions,
		Normalize:  boolOr(cfg.Embedding.Normalize, true),
		Stemming:   boolOr(cfg.Embedding.Stemming, true),
		Language:   embedding.Language(cfg.Embedding.Language),
	})
	logger.Info("Embedding engine created",
		zap.Int("dimensions", engine.Dimensions()),
		zap.String("language", cfg.Embedding.Language),
	)

	// Data source catalog
	reg := registry.New()
	if err := assets.RegisterSources(reg); err != nil {
		logger.Fatal("Failed to register data sources", zap.Error(err))
	}
	logger.Info("Data sources registered", zap.Int("count", len(reg.All())))

	// Chat provider
	chatClient := openaiChat.NewChatClient(&openaiChat.Config{
		APIKey:   cfg.Chat.APIKey,
		BaseURL:  cfg.Chat.BaseURL,
		Model:    cfg.Chat.Model,
		Provider: cfg.Chat.Provider,
		Logger:   logger,
	})

	// Retrieval pipeline services
	hints := assets.NewHintEngine()
	classifySvc := classify.New(chatClient, logger)
	planSvc := plan.New(chatClient, logger)
	executeSvc := execute.New(store, logger)
	ragSvc := raguc.New(hints, classifySvc, planSvc, executeSvc, reg, logger)

	// Message history
	historyRepo := historyrepo.New(kv, time.Duration(cfg.Redis.HistoryTTLSec)*time.Second)
	historySvc := historyuc.New(historyRepo, engine, logger)

	// Conversation orchestrator
	chatbotSvc := chatbot.New(chatClient, ragSvc, historySvc, logger)

	// Health service. The chat check is skipped without an API key so a
	// retrieval-only deployment stays healthy.
	var chatChecker healthuc.ChatChecker
	if cfg.Chat.APIKey != "" {
		chatChecker = chatClient
	}
	healthSvc := healthuc.New(store, kv, chatChecker)

	// HTTP server
	server := chiTransport.NewServer(ragSvc, chatbotSvc, historySvc, engine, reg, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
