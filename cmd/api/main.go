package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"article-store/internal/config"
	hhttp "article-store/internal/handler/http"
	harticle "article-store/internal/handler/http/article"
	"article-store/internal/handler/http/requestid"
	"article-store/internal/observability/logging"
	"article-store/internal/observability/tracing"
	"article-store/internal/pkg/idgen"
	"article-store/internal/repository"
	artUC "article-store/internal/usecase/article"

	_ "article-store/docs" // swagger docs
)

// @title           Article Store API
// @version         1.0
// @description     記事とコメントを永続化する REST API
// @description     PostgreSQL / SQLite / MongoDB / Supabase / インメモリのストアを切り替えて利用できます。

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)
	shutdownTracing := initTracing(logger, cfg.Observability)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open store", slog.String("driver", cfg.Store.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	ids, err := idgen.New(idgen.Strategy(cfg.Store.IDStrategy))
	if err != nil {
		logger.Error("failed to create id generator", slog.Any("error", err))
		os.Exit(1)
	}

	engine, breaker := decorateEngine(st, cfg.CircuitBreaker)
	svc := artUC.Service{
		Articles: repository.NewArticleRepo(engine, ids),
		Comments: repository.NewCommentRepo(engine, ids),
	}

	health := &hhttp.HealthHandler{
		Store:   st.Checker,
		Driver:  st.Driver,
		DB:      st.DB,
		Version: cfg.Observability.Version,
	}
	if breaker != nil {
		health.Breaker = breaker
	}

	handler := applyMiddleware(logger, setupRoutes(svc, health, st), cfg.HTTP)

	if err := runServer(ctx, logger, handler, st, cfg); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger initializes and returns a structured logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	logger := newLogger(cfg.Observability)
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("id_strategy", cfg.Store.IDStrategy),
		slog.String("addr", cfg.HTTP.Addr),
		slog.Bool("circuit_breaker", cfg.CircuitBreaker.Enabled),
		slog.String("version", cfg.Observability.Version),
		slog.String("log_format", cfg.Observability.LogFormat))
	return logger
}

// newLogger builds the JSON logger, or the text logger for local development,
// tagged with the service identity.
func newLogger(cfg config.ObservabilityConfig) *slog.Logger {
	logger := logging.NewLoggerWithLevel(cfg.LogLevel)
	if cfg.LogFormat == "text" {
		logger = logging.NewTextLogger(cfg.LogLevel)
	}
	return logging.WithFields(logger, map[string]interface{}{
		"service": cfg.ServiceName,
		"version": cfg.Version,
	})
}

// initTracing installs the global tracer provider, exporting spans to stderr
// when OTEL_TRACES_EXPORTER=stdout.
func initTracing(logger *slog.Logger, cfg config.ObservabilityConfig) func(context.Context) error {
	var opts []sdktrace.TracerProviderOption
	if cfg.TraceExporter == "stdout" {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			logger.Error("failed to create stdout trace exporter", slog.Any("error", err))
			os.Exit(1)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	logger.Info("tracing initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("exporter", cfg.TraceExporter))
	return tracing.InitProvider(cfg.ServiceName, cfg.Version, opts...)
}

// setupRoutes registers the article API plus the operational endpoints.
func setupRoutes(svc artUC.Service, health *hhttp.HealthHandler, st *store) *http.ServeMux {
	mux := http.NewServeMux()

	// ヘルスチェック・メトリクス
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Store: st.Checker})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Swagger UI
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	harticle.Register(mux, svc)
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Request ID → Tracing → Logging → Recovery → Metrics → Body Limit → Rate Limit → Timeout
func applyMiddleware(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig) http.Handler {
	h := hhttp.Timeout(cfg.RequestTimeout)(handler)

	if cfg.RateLimitRPS > 0 {
		var opts []hhttp.RateLimiterOption
		// プロキシ配下では信頼済みの接続元からのヘッダーだけを使う
		if proxies, err := hhttp.ParseTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Error("ignoring trusted proxies", slog.Any("error", err))
		} else if len(proxies) > 0 {
			opts = append(opts, hhttp.WithIPExtractor(hhttp.NewTrustedProxyExtractor(proxies)))
		}
		limiter := hhttp.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst, opts...)
		h = limiter.Limit(h)
		logger.Info("rate limiting enabled",
			slog.Int("rps", cfg.RateLimitRPS),
			slog.Int("burst", cfg.RateLimitBurst),
			slog.Int("trusted_proxies", len(cfg.TrustedProxies)))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	h = hhttp.LimitRequestBody(int64(cfg.MaxBodyBytes))(h)
	h = hhttp.MetricsMiddleware(h)
	h = hhttp.Recover(logger)(h)
	h = hhttp.Logging(logger)(h)
	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	return h
}

// runServer serves HTTP until ctx is canceled, then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler, st *store, cfg *config.Config) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("version", cfg.Observability.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if st.DB != nil {
		g.Go(func() error {
			reportPoolStats(gctx, st.DB, 15*time.Second)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
