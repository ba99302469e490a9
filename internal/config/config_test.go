package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("DATABASE_URL", "postgres://app@localhost/articles")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "ulid", cfg.Store.IDStrategy)
	assert.True(t, cfg.Store.EnsureSchema)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 1<<20, cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, 50, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, 100, cfg.HTTP.RateLimitBurst)
	assert.True(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, uint32(3), cfg.CircuitBreaker.MaxRequests)
	assert.Equal(t, 0.6, cfg.CircuitBreaker.FailureThreshold)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "none", cfg.Observability.TraceExporter)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/data/articles.db")
	t.Setenv("ID_STRATEGY", "uuidv7")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("DB_CIRCUIT_BREAKER_ENABLED", "false")
	t.Setenv("DB_CB_FAILURE_THRESHOLD", "0.9")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")
	t.Setenv("VERSION", "1.2.3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/data/articles.db", cfg.Store.SQLitePath)
	assert.Equal(t, "uuidv7", cfg.Store.IDStrategy)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 0, cfg.HTTP.RateLimitRPS)
	assert.False(t, cfg.CircuitBreaker.Enabled)
	assert.Equal(t, 0.9, cfg.CircuitBreaker.FailureThreshold)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, "1.2.3", cfg.Observability.Version)
	assert.Equal(t, "text", cfg.Observability.LogFormat)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.HTTP.TrustedProxies)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnvVars(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
store:
  driver: mongo
  mongo_uri: mongodb://localhost:27017
  mongo_database: blog
http:
  addr: ":7070"
  request_timeout: 2s
  trusted_proxies:
    - 172.16.0.0/12
circuit_breaker:
  enabled: true
  failure_threshold: 0.5
observability:
  log_level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":6060")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
	assert.Equal(t, "blog", cfg.Store.MongoDatabase)
	assert.Equal(t, ":6060", cfg.HTTP.Addr, "env wins over file")
	assert.Equal(t, 2*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, []string{"172.16.0.0/12"}, cfg.HTTP.TrustedProxies)
	assert.Equal(t, 0.5, cfg.CircuitBreaker.FailureThreshold)
	// ファイルに無い項目はデフォルトのまま
	assert.Equal(t, uint32(3), cfg.CircuitBreaker.MaxRequests)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("store: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", bad)
	_, err = Load()
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "memory needs nothing",
			mutate: func(c *Config) { c.Store.Driver = DriverMemory },
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Store.Driver = DriverPostgres },
			wantErr: "DATABASE_URL",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Store.Driver = DriverSQLite
				c.Store.SQLitePath = ""
			},
			wantErr: "SQLITE_PATH",
		},
		{
			name:    "mongo without uri",
			mutate:  func(c *Config) { c.Store.Driver = DriverMongo },
			wantErr: "MONGO_URI",
		},
		{
			name: "supabase without key",
			mutate: func(c *Config) {
				c.Store.Driver = DriverSupabase
				c.Store.SupabaseURL = "https://ref.supabase.co"
			},
			wantErr: "SUPABASE_KEY",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "oracle" },
			wantErr: "STORE_DRIVER",
		},
		{
			name: "unknown id strategy",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.Store.IDStrategy = "snowflake"
			},
			wantErr: "ID_STRATEGY",
		},
		{
			name: "zero request timeout",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.HTTP.RequestTimeout = 0
			},
			wantErr: "REQUEST_TIMEOUT",
		},
		{
			name: "shutdown timeout too short",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.HTTP.ShutdownTimeout = 100 * time.Millisecond
			},
			wantErr: "SHUTDOWN_TIMEOUT",
		},
		{
			name: "negative rate limit",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.HTTP.RateLimitRPS = -1
			},
			wantErr: "RATE_LIMIT_RPS",
		},
		{
			name: "rate limit without burst",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.HTTP.RateLimitBurst = 0
			},
			wantErr: "RATE_LIMIT_BURST",
		},
		{
			name: "failure threshold out of range",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.CircuitBreaker.FailureThreshold = 1.5
			},
			wantErr: "failure_threshold",
		},
		{
			name: "disabled breaker skips its checks",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.CircuitBreaker.Enabled = false
				c.CircuitBreaker.MaxRequests = 0
			},
		},
		{
			name: "unknown trace exporter",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.Observability.TraceExporter = "jaeger"
			},
			wantErr: "OTEL_TRACES_EXPORTER",
		},
		{
			name: "unknown log format",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.Observability.LogFormat = "logfmt"
			},
			wantErr: "LOG_FORMAT",
		},
		{
			name: "invalid trusted proxy",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.HTTP.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal"}
			},
			wantErr: "TRUSTED_PROXIES",
		},
		{
			name: "trusted proxies accept IPs and ranges",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.HTTP.TrustedProxies = []string{"192.0.2.10", "2001:db8::/32"}
			},
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Store.Driver = DriverMemory
				c.Observability.LogLevel = "trace"
			},
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"CONFIG_FILE",
		"STORE_DRIVER",
		"DATABASE_URL",
		"SQLITE_PATH",
		"MONGO_URI",
		"MONGO_DATABASE",
		"SUPABASE_URL",
		"SUPABASE_KEY",
		"ID_STRATEGY",
		"STORE_ENSURE_SCHEMA",
		"HTTP_ADDR",
		"REQUEST_TIMEOUT",
		"SHUTDOWN_TIMEOUT",
		"MAX_BODY_BYTES",
		"RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST",
		"DB_CIRCUIT_BREAKER_ENABLED",
		"DB_CB_MAX_REQUESTS",
		"DB_CB_INTERVAL",
		"DB_CB_TIMEOUT",
		"DB_CB_FAILURE_THRESHOLD",
		"DB_CB_MIN_REQUESTS",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"TRUSTED_PROXIES",
		"OTEL_SERVICE_NAME",
		"VERSION",
		"OTEL_TRACES_EXPORTER",
	}
	for _, key := range envVars {
		// t.Setenv で元の値を復元させてから消す
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
