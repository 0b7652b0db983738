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

	"github.com/kailas-cloud/prodex/internal/config"
	dbElastic "github.com/kailas-cloud/prodex/internal/db/elastic"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/prodex/internal/repository/catalog"
	indexrepo "github.com/kailas-cloud/prodex/internal/repository/index"
	searchrepo "github.com/kailas-cloud/prodex/internal/repository/search"
	"github.com/kailas-cloud/prodex/internal/source"
	chiTransport "github.com/kailas-cloud/prodex/internal/transport/chi"
	"github.com/kailas-cloud/prodex/internal/version"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/prodex/internal/usecase/index"
	ingestuc "github.com/kailas-cloud/prodex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
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

	logger.Info("Starting prodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("es_addrs", cfg.Elastic.Addrs),
		zap.String("index", cfg.Index.Name),
	)

	store := dbElastic.NewStore(dbElastic.Config{
		Addrs:      cfg.Elastic.Addrs,
		Username:   cfg.Elastic.Username,
		Password:   cfg.Elastic.Password,
		MaxRetries: cfg.Elastic.MaxRetries,
		BaseDelay:  time.Duration(cfg.Elastic.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:   time.Duration(cfg.Elastic.RetryMaxDelaySec) * time.Second,
		Logger:     logger,
	})
	defer store.Close()

	// Wait for the engine to come up; retries with backoff inside.
	ctx := context.Background()
	if err := store.Connect(ctx); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	// Register catalog metrics explicitly (no init())
	metrics.RegisterCatalogMetrics()

	// Repositories
	catalogRepo := catalogrepo.New(store, cfg.Index.Name)
	idxRepo := indexrepo.New(store, cfg.Index.Name)
	searchRepo := searchrepo.New(store, cfg.Index.Name)

	// Document source for the reload path; optional.
	var docSource ingestuc.Source
	if cfg.Source.Path != "" {
		docSource = source.NewFileSource(cfg.Source.Path)
		logger.Info("Document source configured", zap.String("path", cfg.Source.Path))
	}

	// Usecase services
	ingestSvc := ingestuc.New(catalogRepo, idxRepo, docSource).
		WithChunkSize(cfg.Ingest.ChunkSize).
		WithFallbackSample(cfg.Ingest.FallbackSample)
	searchSvc := searchuc.New(searchRepo).
		WithPagination(cfg.Index.DefaultPageSize, cfg.Index.MaxPageSize)
	indexSvc := indexuc.New(idxRepo)
	healthSvc := healthuc.New(store, idxRepo)

	server := chiTransport.NewServer(ingestSvc, searchSvc, indexSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// jsonRecoverer converts panics into JSON 500 responses with a logged stack.
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

			// Canonical log line, one line per request
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
