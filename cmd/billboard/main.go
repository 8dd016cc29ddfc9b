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
	"go.uber.org/zap"

	"github.com/billboard-civic/billboard/internal/config"
	dbRedis "github.com/billboard-civic/billboard/internal/db/redis"
	"github.com/billboard-civic/billboard/internal/domain"
	logpkg "github.com/billboard-civic/billboard/internal/logger"
	"github.com/billboard-civic/billboard/internal/metrics"
	billsrepo "github.com/billboard-civic/billboard/internal/repository/bills"
	"github.com/billboard-civic/billboard/internal/repository/billvector"
	"github.com/billboard-civic/billboard/internal/repository/embcache"
	profilerepo "github.com/billboard-civic/billboard/internal/repository/profile"
	chiTransport "github.com/billboard-civic/billboard/internal/transport/chi"
	openaiEmb "github.com/billboard-civic/billboard/internal/transport/openai"
	embeddinguc "github.com/billboard-civic/billboard/internal/usecase/embedding"
	fusionuc "github.com/billboard-civic/billboard/internal/usecase/fusion"
	healthuc "github.com/billboard-civic/billboard/internal/usecase/health"
	profileuc "github.com/billboard-civic/billboard/internal/usecase/profile"
	recommenduc "github.com/billboard-civic/billboard/internal/usecase/recommend"
	"github.com/billboard-civic/billboard/internal/version"
)

func main() {
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

	logger.Info("Starting billboard API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("vectorstore_addrs", cfg.VectorStore.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.VectorStore.Addrs,
		Username: cfg.VectorStore.Username,
		Password: cfg.VectorStore.Password,
		DB:       cfg.VectorStore.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.VectorStore.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	bills, err := billsrepo.Open(ctx, cfg.Bills.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to bill database", zap.Error(err))
	}
	defer bills.Close()
	logger.Info("Connected to bill database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRecommendMetrics()

	// Embedder chain: OpenAI transport -> cache -> instrumentation
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	embedder := embeddinguc.NewInstrumentedEmbedder(
		cached, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	vectorCfg := domain.VectorConfig{
		Model:          cfg.Embedding.Model,
		Dimensions:     cfg.Embedding.Dimensions,
		DistanceMetric: cfg.Index.DistanceMetric,
		Algorithm:      cfg.Index.Algorithm,
	}
	vectors := billvector.New(store, vectorCfg)
	profiles := profilerepo.New(store)

	fusion := fusionuc.New(embedder, fusionuc.Config{
		Dimensions:        cfg.Embedding.Dimensions,
		InterestWeight:    cfg.Recommend.InterestWeight,
		DemographicWeight: cfg.Recommend.DemographicWeight,
	})
	recSvc := recommenduc.New(fusion, vectors, embedder, bills, recommenduc.Config{
		RRFK:                 cfg.Recommend.RRFK,
		RRFInterestWeight:    cfg.Recommend.RRFInterestWeight,
		RRFDemographicWeight: cfg.Recommend.RRFDemographicWeight,
	})
	profSvc := profileuc.New(profiles)
	healthSvc := healthuc.New(store, bills, newEmbeddingHealthChecker(base))

	server := chiTransport.NewServer(recSvc, profSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps the transport embedder for the health service.
type embeddingHealthChecker struct {
	inner *openaiEmb.Embedder
}

func newEmbeddingHealthChecker(inner *openaiEmb.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{inner: inner}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if err := h.inner.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
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
