// Package config loads the service configuration from an optional YAML file
// and environment variables. Environment variables always win over the file.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	envconfig "article-store/pkg/config"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverSupabase = "supabase"
)

// Config is the root configuration of the API server.
type Config struct {
	Store          StoreConfig          `yaml:"store"`
	HTTP           HTTPConfig           `yaml:"http"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Observability  ObservabilityConfig  `yaml:"observability"`
}

// StoreConfig selects and addresses the execution engine.
type StoreConfig struct {
	// Driver is one of postgres, sqlite, memory, mongo, supabase. Default: postgres
	Driver string `yaml:"driver"`
	// DatabaseURL is the PostgreSQL DSN.
	DatabaseURL string `yaml:"database_url"`
	// SQLitePath is the SQLite database file. Default: articles.db
	SQLitePath string `yaml:"sqlite_path"`
	// MongoURI is the MongoDB connection string.
	MongoURI string `yaml:"mongo_uri"`
	// MongoDatabase is the MongoDB database name. Default: articles
	MongoDatabase string `yaml:"mongo_database"`
	// SupabaseURL is the project URL (https://<ref>.supabase.co).
	SupabaseURL string `yaml:"supabase_url"`
	// SupabaseKey is the API key sent to PostgREST.
	SupabaseKey string `yaml:"supabase_key"`
	// IDStrategy is ulid or uuidv7. Default: ulid
	IDStrategy string `yaml:"id_strategy"`
	// EnsureSchema creates tables and indexes at startup. Default: true
	EnsureSchema bool `yaml:"ensure_schema"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	// Addr is the listen address. Default: :8080
	Addr string `yaml:"addr"`
	// RequestTimeout bounds every request context. Default: 10s
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxBodyBytes limits request bodies. Default: 1MB
	MaxBodyBytes int `yaml:"max_body_bytes"`
	// RateLimitRPS is the per-client request rate. 0 disables limiting. Default: 50
	RateLimitRPS int `yaml:"rate_limit_rps"`
	// RateLimitBurst is the per-client burst size. Default: 100
	RateLimitBurst int `yaml:"rate_limit_burst"`
	// TrustedProxies lists reverse proxy IPs or CIDR ranges whose
	// X-Forwarded-For header is honoured by the rate limiter. Default: none
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// CircuitBreakerConfig configures the circuit breaker around the execution engine.
type CircuitBreakerConfig struct {
	// Enabled wraps the engine with a circuit breaker. Default: true
	Enabled bool `yaml:"enabled"`
	// MaxRequests in half-open state. Default: 3
	MaxRequests uint32 `yaml:"max_requests"`
	// Interval for clearing failure counts. Default: 10s
	Interval time.Duration `yaml:"interval"`
	// Timeout before transitioning from open to half-open. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
	// FailureThreshold ratio to trip circuit (0.0 to 1.0). Default: 0.6
	FailureThreshold float64 `yaml:"failure_threshold"`
	// MinRequests before calculating failure ratio. Default: 5
	MinRequests uint32 `yaml:"min_requests"`
}

// ObservabilityConfig holds logging and tracing settings.
type ObservabilityConfig struct {
	// LogLevel is debug, info, warn or error. Default: info
	LogLevel string `yaml:"log_level"`
	// LogFormat is json or text. Default: json
	LogFormat string `yaml:"log_format"`
	// ServiceName reported by traces. Default: article-store
	ServiceName string `yaml:"service_name"`
	// Version reported by the health endpoint.
	Version string `yaml:"version"`
	// TraceExporter is none or stdout. Default: none
	TraceExporter string `yaml:"trace_exporter"`
}

// Default returns the configuration used when neither a file nor env vars are present.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:        DriverPostgres,
			SQLitePath:    "articles.db",
			MongoDatabase: "articles",
			IDStrategy:    "ulid",
			EnsureSchema:  true,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			RateLimitRPS:    50,
			RateLimitBurst:  100,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         10 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogFormat:     "json",
			ServiceName:   "article-store",
			Version:       "dev",
			TraceExporter: "none",
		},
	}
}

// Load reads the YAML file named by CONFIG_FILE (if set), applies environment
// overrides and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg.
// The path parameter is expected to come from a trusted source (environment of the process).
func (c *Config) loadFile(path string) error {
	// #nosec G304 -- path is provided by the operator, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	s := &c.Store
	s.Driver = strings.ToLower(envconfig.GetEnvString("STORE_DRIVER", s.Driver))
	s.DatabaseURL = envconfig.GetEnvString("DATABASE_URL", s.DatabaseURL)
	s.SQLitePath = envconfig.GetEnvString("SQLITE_PATH", s.SQLitePath)
	s.MongoURI = envconfig.GetEnvString("MONGO_URI", s.MongoURI)
	s.MongoDatabase = envconfig.GetEnvString("MONGO_DATABASE", s.MongoDatabase)
	s.SupabaseURL = envconfig.GetEnvString("SUPABASE_URL", s.SupabaseURL)
	s.SupabaseKey = envconfig.GetEnvString("SUPABASE_KEY", s.SupabaseKey)
	s.IDStrategy = strings.ToLower(envconfig.GetEnvString("ID_STRATEGY", s.IDStrategy))
	s.EnsureSchema = envconfig.GetEnvBool("STORE_ENSURE_SCHEMA", s.EnsureSchema)

	h := &c.HTTP
	h.Addr = envconfig.GetEnvString("HTTP_ADDR", h.Addr)
	h.RequestTimeout = envconfig.GetEnvDuration("REQUEST_TIMEOUT", h.RequestTimeout)
	h.ShutdownTimeout = envconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", h.ShutdownTimeout)
	h.MaxBodyBytes = envconfig.GetEnvInt("MAX_BODY_BYTES", h.MaxBodyBytes)
	h.RateLimitRPS = envconfig.GetEnvInt("RATE_LIMIT_RPS", h.RateLimitRPS)
	h.RateLimitBurst = envconfig.GetEnvInt("RATE_LIMIT_BURST", h.RateLimitBurst)
	h.TrustedProxies = envconfig.GetEnvStringList("TRUSTED_PROXIES", h.TrustedProxies)

	cb := &c.CircuitBreaker
	cb.Enabled = envconfig.GetEnvBool("DB_CIRCUIT_BREAKER_ENABLED", cb.Enabled)
	cb.MaxRequests = uint32(envconfig.GetEnvInt("DB_CB_MAX_REQUESTS", int(cb.MaxRequests))) // #nosec G115
	cb.Interval = envconfig.GetEnvDuration("DB_CB_INTERVAL", cb.Interval)
	cb.Timeout = envconfig.GetEnvDuration("DB_CB_TIMEOUT", cb.Timeout)
	cb.FailureThreshold = envconfig.GetEnvFloat("DB_CB_FAILURE_THRESHOLD", cb.FailureThreshold)
	cb.MinRequests = uint32(envconfig.GetEnvInt("DB_CB_MIN_REQUESTS", int(cb.MinRequests))) // #nosec G115

	o := &c.Observability
	o.LogLevel = envconfig.GetEnvString("LOG_LEVEL", o.LogLevel)
	o.LogFormat = strings.ToLower(envconfig.GetEnvString("LOG_FORMAT", o.LogFormat))
	o.ServiceName = envconfig.GetEnvString("OTEL_SERVICE_NAME", o.ServiceName)
	o.Version = envconfig.GetEnvString("VERSION", o.Version)
	o.TraceExporter = strings.ToLower(envconfig.GetEnvString("OTEL_TRACES_EXPORTER", o.TraceExporter))
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo driver")
		}
		if c.Store.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE cannot be empty")
		}
	case DriverSupabase:
		if c.Store.SupabaseURL == "" || c.Store.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase driver")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported", c.Store.Driver)
	}

	switch c.Store.IDStrategy {
	case "ulid", "uuidv7":
	default:
		return fmt.Errorf("ID_STRATEGY %q is not supported", c.Store.IDStrategy)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if err := envconfig.ValidatePositiveDuration(c.HTTP.RequestTimeout); err != nil {
		return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if err := envconfig.ValidateDurationRange(c.HTTP.ShutdownTimeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS cannot be negative")
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	for _, proxy := range c.HTTP.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP address or CIDR range", proxy)
		}
	}

	if c.CircuitBreaker.Enabled {
		if c.CircuitBreaker.MaxRequests == 0 {
			return fmt.Errorf("DB_CB_MAX_REQUESTS must be positive")
		}
		if err := envconfig.ValidatePositiveDuration(c.CircuitBreaker.Interval); err != nil {
			return fmt.Errorf("DB_CB_INTERVAL: %w", err)
		}
		if err := envconfig.ValidatePositiveDuration(c.CircuitBreaker.Timeout); err != nil {
			return fmt.Errorf("DB_CB_TIMEOUT: %w", err)
		}
		if c.CircuitBreaker.FailureThreshold <= 0 || c.CircuitBreaker.FailureThreshold > 1 {
			return fmt.Errorf("circuit breaker failure_threshold must be between 0.0 and 1.0")
		}
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not supported", c.Observability.LogLevel)
	}

	switch c.Observability.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT %q is not supported", c.Observability.LogFormat)
	}

	switch c.Observability.TraceExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("OTEL_TRACES_EXPORTER %q is not supported", c.Observability.TraceExporter)
	}

	return nil
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := netip.ParsePrefix(s); err == nil {
		return true
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}
