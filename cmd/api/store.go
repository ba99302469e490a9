package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"article-store/internal/config"
	hhttp "article-store/internal/handler/http"
	"article-store/internal/infra/adapter/persistence/memory"
	"article-store/internal/infra/adapter/persistence/mongostore"
	"article-store/internal/infra/adapter/persistence/sqlstore"
	"article-store/internal/infra/adapter/persistence/supabasestore"
	"article-store/internal/infra/db"
	"article-store/internal/observability/metrics"
	"article-store/internal/observability/tracing"
	"article-store/internal/repository"
	"article-store/internal/resilience/circuitbreaker"
)

// store bundles the base engine selected by configuration with the handles
// the health checks and shutdown need.
type store struct {
	repository.Engine
	Driver  string
	Checker hhttp.StoreChecker
	// DB is set for the SQL drivers only.
	DB    *sql.DB
	Close func(ctx context.Context) error
}

// openStore connects to the configured backend and bootstraps its schema.
func openStore(ctx context.Context, cfg config.StoreConfig) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openSQL(ctx, sqlstore.Postgres, cfg.DatabaseURL, cfg)
	case config.DriverSQLite:
		return openSQL(ctx, sqlstore.SQLite, db.SQLiteDSN(cfg.SQLitePath), cfg)
	case config.DriverMemory:
		return openMemory(), nil
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverSupabase:
		return openSupabase(cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

func openSQL(ctx context.Context, d sqlstore.Dialect, dsn string, cfg config.StoreConfig) (*store, error) {
	database, err := db.Open(ctx, d, dsn)
	if err != nil {
		return nil, err
	}
	if cfg.EnsureSchema {
		if err := sqlstore.EnsureSchema(ctx, database, d); err != nil {
			_ = database.Close()
			return nil, err
		}
	}
	return &store{
		Engine:  sqlstore.New(database, d),
		Driver:  d.Name,
		Checker: hhttp.PingFunc(database.PingContext),
		DB:      database,
		Close:   func(context.Context) error { return database.Close() },
	}, nil
}

func openMemory() *store {
	slog.Warn("using the in-memory store - data is lost on restart")
	return &store{
		Engine:  memory.New(),
		Driver:  config.DriverMemory,
		Checker: hhttp.PingFunc(func(context.Context) error { return nil }),
		Close:   func(context.Context) error { return nil },
	}
}

func openMongo(ctx context.Context, cfg config.StoreConfig) (*store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)
	if cfg.EnsureSchema {
		if err := mongostore.EnsureIndexes(connectCtx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	slog.Info("mongo connection established", slog.String("database", cfg.MongoDatabase))
	return &store{
		Engine: mongostore.New(database),
		Driver: config.DriverMongo,
		Checker: hhttp.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}),
		Close: client.Disconnect,
	}, nil
}

func openSupabase(cfg config.StoreConfig) (*store, error) {
	client, err := supabasestore.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return nil, err
	}
	engine := supabasestore.New(client)
	return &store{
		Engine: engine,
		Driver: config.DriverSupabase,
		// PostgREST に専用の ping は無いので 1 件だけ引いて疎通を確認する
		Checker: hhttp.PingFunc(func(ctx context.Context) error {
			_, err := engine.SelectOne(ctx, repository.ArticleTable,
				repository.Predicate{Column: repository.ColArticleID, Value: ""})
			return err
		}),
		Close: func(context.Context) error { return nil },
	}, nil
}

// decorateEngine layers tracing, metrics and (optionally) the circuit breaker
// over the base engine. The breaker is returned for health reporting.
func decorateEngine(st *store, cfg config.CircuitBreakerConfig) (repository.Engine, *circuitbreaker.EngineCircuitBreaker) {
	var (
		engine  repository.Engine = st.Engine
		breaker *circuitbreaker.EngineCircuitBreaker
	)
	if cfg.Enabled {
		cbCfg := circuitbreaker.EngineConfig()
		cbCfg.MaxRequests = cfg.MaxRequests
		cbCfg.Interval = cfg.Interval
		cbCfg.Timeout = cfg.Timeout
		cbCfg.FailureThreshold = cfg.FailureThreshold
		cbCfg.MinRequests = cfg.MinRequests
		breaker = circuitbreaker.NewEngine(engine, cbCfg)
		engine = breaker
	}
	return tracing.NewEngine(metrics.NewEngine(engine), st.Driver), breaker
}

// reportPoolStats publishes SQL pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, database *sql.DB, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		stats := database.Stats()
		metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
