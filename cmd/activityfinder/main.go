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

	"github.com/youthconnect/activityfinder/internal/cache"
	"github.com/youthconnect/activityfinder/internal/catalog"
	"github.com/youthconnect/activityfinder/internal/config"
	"github.com/youthconnect/activityfinder/internal/domain"
	logpkg "github.com/youthconnect/activityfinder/internal/logger"
	"github.com/youthconnect/activityfinder/internal/metrics"
	"github.com/youthconnect/activityfinder/internal/repository/embcache"
	chiTransport "github.com/youthconnect/activityfinder/internal/transport/chi"
	openaiEmb "github.com/youthconnect/activityfinder/internal/transport/openai"
	healthuc "github.com/youthconnect/activityfinder/internal/usecase/health"
	searchuc "github.com/youthconnect/activityfinder/internal/usecase/search"
	"github.com/youthconnect/activityfinder/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting activity finder",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
	)

	metrics.Register()

	// A server with no catalog must not come up.
	idx, err := catalog.LoadIndex(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	holder := catalog.NewHolder(idx)
	metrics.CatalogRecords.Set(float64(idx.Len()))
	logger.Info("Catalog loaded",
		zap.Int("records", idx.Len()),
		zap.Int("embedded", idx.EmbeddedCount()),
		zap.Int("dimensions", idx.Dimensions()),
	)

	embedder, cacheStore := buildEmbedder(cfg, logger)
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	searchSvc := searchuc.New(holder, embedder, logger).
		WithRelaxation(cfg.Search.Floor, cfg.Search.RelaxStep)

	var embChecker healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		embChecker = hc
	}
	healthSvc := healthuc.New(holder, embChecker)

	reloader := &catalogReloader{holder: holder, path: cfg.Catalog.Path}
	server := chiTransport.NewServer(searchSvc, healthSvc, reloader, logger)

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

	// SIGHUP triggers an in-place catalog reload; SIGINT/SIGTERM shut down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	go func() {
		for range hup {
			if loaded, err := reloader.Reload(context.Background()); err != nil {
				logger.Error("SIGHUP catalog reload failed", zap.Error(err))
			} else {
				logger.Info("SIGHUP catalog reloaded", zap.Int("records", loaded))
			}
		}
	}()

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

// buildEmbedder assembles the query embedder chain: OpenAI -> cache.
// Returns a nil embedder when no API key is configured (lexical-only mode).
func buildEmbedder(cfg config.Config, logger *zap.Logger) (searchuc.Embedder, *cache.Store) {
	if cfg.Embedding.APIKey == "" {
		logger.Warn("No embedding API key configured, running lexical-only")
		return nil, nil
	}

	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var cacheStore *cache.Store
	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cache.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			// The cache is an optimization; a broken cache must not take
			// the semantic path down with it.
			logger.Warn("Embedding cache unavailable, continuing without it", zap.Error(err))
		} else {
			cacheStore = store
			embedder = embcache.New(
				embedder, store, cfg.Embedding.Model,
				time.Duration(cfg.Cache.TTLHours)*time.Hour, logger,
			)
		}
	}

	logger.Info("Query embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cached", cacheStore != nil),
	)
	return embedder, cacheStore
}

// catalogReloader rebuilds the index from disk and swaps it atomically.
type catalogReloader struct {
	holder *catalog.Holder
	path   string
}

func (c *catalogReloader) Reload(_ context.Context) (int, error) {
	idx, err := catalog.LoadIndex(c.path)
	if err != nil {
		return 0, err
	}
	c.holder.Replace(idx)
	metrics.CatalogRecords.Set(float64(idx.Len()))
	return idx.Len(), nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a
// plain text stacktrace.
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
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates
// X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
