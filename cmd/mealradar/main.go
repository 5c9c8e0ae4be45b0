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
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/config"
	dbRedis "github.com/mealradar/mealradar/internal/db/redis"
	logpkg "github.com/mealradar/mealradar/internal/logger"
	"github.com/mealradar/mealradar/internal/metrics"
	"github.com/mealradar/mealradar/internal/repository/confcache"
	"github.com/mealradar/mealradar/internal/repository/configentry"
	foodrepo "github.com/mealradar/mealradar/internal/repository/food"
	restaurantrepo "github.com/mealradar/mealradar/internal/repository/restaurant"
	chiTransport "github.com/mealradar/mealradar/internal/transport/chi"
	openaiIntent "github.com/mealradar/mealradar/internal/transport/openai"
	fooduc "github.com/mealradar/mealradar/internal/usecase/food"
	healthuc "github.com/mealradar/mealradar/internal/usecase/health"
	intentuc "github.com/mealradar/mealradar/internal/usecase/intent"
	restaurantuc "github.com/mealradar/mealradar/internal/usecase/restaurant"
	configuc "github.com/mealradar/mealradar/internal/usecase/runtimeconfig"
	searchuc "github.com/mealradar/mealradar/internal/usecase/search"
	"github.com/mealradar/mealradar/internal/version"
)

func main() {
	_ = godotenv.Load()

	// Load configuration based on ENV
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

	logger.Info("Starting mealradar API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Create repositories
	restRepo := restaurantrepo.New(store)
	if err := restRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create restaurant index", zap.Error(err))
	}
	foodRepo := foodrepo.New(store)
	entryRepo := configentry.New(store)

	cache := confcache.New(
		entryRepo,
		time.Duration(cfg.Search.CacheTTLSec)*time.Second,
		metrics.ConfigCacheTotal,
	)

	// Intent resolution chain. With no API key configured the provider
	// rejects every call and the resolver degrades to explicit filters.
	completer := openaiIntent.NewCompleter(&openaiIntent.Config{
		APIKey:  cfg.Intent.APIKey,
		BaseURL: cfg.Intent.BaseURL,
		Model:   cfg.Intent.Model,
		Logger:  logger,
	})
	resolver := intentuc.NewService(
		completer, cache,
		time.Duration(cfg.Intent.TimeoutSec)*time.Second,
		logger,
	)
	logger.Info("Intent resolver created",
		zap.String("model", cfg.Intent.Model),
		zap.Bool("enabled", cfg.Intent.APIKey != ""),
	)

	// Create use case services
	searchSvc := searchuc.NewService(resolver, restRepo, foodRepo, searchuc.Tuning{
		DefaultPageSize:     cfg.Search.DefaultPageSize,
		MaxPageSize:         cfg.Search.MaxPageSize,
		OverFetchMultiplier: cfg.Search.OverFetchMultiplier,
		MaxCandidates:       cfg.Search.MaxCandidates,
	}, logger)
	foodSvc := fooduc.NewService(foodRepo, logger)
	restSvc := restaurantuc.NewService(restRepo, logger)
	configSvc := configuc.NewService(entryRepo, cache, logger)

	// Health service; the intent check runs only when a provider is configured
	var intentChecker healthuc.IntentChecker
	if cfg.Intent.APIKey != "" {
		intentChecker = completer
	}
	healthSvc := healthuc.New(store, intentChecker)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, foodSvc, restSvc, configSvc, healthSvc, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: false,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(corsHandler.Handler)
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
						"kind":    "INTERNAL",
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
