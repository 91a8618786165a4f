// Package config loads the portfolio service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. APP_SERVER_PORT.
const EnvPrefix = "APP_"

// Default configuration values.
const (
	DefaultServerPort     = 8000
	DefaultMaxRequestSize = 1 << 20

	DefaultTokenTTL   = 7 * 24 * time.Hour
	DefaultBcryptCost = 12

	DefaultDatabaseDriver       = "sqlite"
	DefaultDatabaseDSN          = "portfolio.db"
	DefaultDatabaseMaxOpenConns = 10
	DefaultDatabaseMaxIdleConns = 5

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	DefaultTokenPurgeSchedule = "@hourly"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Quote     QuoteConfig     `koanf:"quote"     validate:"required"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Features  map[string]bool `koanf:"features"`
	CORS      CORSConfig      `koanf:"cors"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig controls admin credentials and API tokens.
type AuthConfig struct {
	TokenTTL   time.Duration `koanf:"token_ttl"   validate:"required,min=1m"`
	BcryptCost int           `koanf:"bcrypt_cost" validate:"required,min=4,max=31"`
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=sqlite postgres"`
	DSN             string        `koanf:"dsn"               validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// QuoteConfig controls the quote of the day.
type QuoteConfig struct {
	// Timezone decides where the calendar day starts.
	Timezone string `koanf:"timezone" validate:"required,timezone"`
}

// Location resolves Timezone. Call after Validate.
func (q QuoteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ServicesConfig contains configuration for downstream services.
type ServicesConfig struct {
	Quotes ServiceEndpointConfig `koanf:"quotes"`
}

// ServiceEndpointConfig describes an optional downstream service.
type ServiceEndpointConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	Name    string `koanf:"name"     validate:"required_if=Enabled true"`
}

// SchedulerConfig controls background jobs.
type SchedulerConfig struct {
	Enabled    bool   `koanf:"enabled"`
	TokenPurge string `koanf:"token_purge" validate:"required_if=Enabled true,omitempty,cronspec"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string      `koanf:"allowed_origins"`
	MaxAge         time.Duration `koanf:"max_age"`
}

// FeatureEnabled reports a feature switch, falling back to def when unset.
func (c *Config) FeatureEnabled(name string, def bool) bool {
	if v, ok := c.Features[name]; ok {
		return v
	}

	return def
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "portfolio-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "30s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/portfolio.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "portfolio-service",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.token_ttl":   DefaultTokenTTL.String(),
		"auth.bcrypt_cost": DefaultBcryptCost,

		"database.driver":            DefaultDatabaseDriver,
		"database.dsn":               DefaultDatabaseDSN,
		"database.max_open_conns":    DefaultDatabaseMaxOpenConns,
		"database.max_idle_conns":    DefaultDatabaseMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.auto_migrate":      true,

		"quote.timezone": "UTC",

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"services.quotes.enabled":  false,
		"services.quotes.base_url": "https://api.quotable.io",
		"services.quotes.name":     "quotes-api",

		"scheduler.enabled":     true,
		"scheduler.token_purge": DefaultTokenPurgeSchedule,

		"features.contact_form": true,
		"features.quote_import": true,

		"cors.allowed_origins": []string{"http://localhost:5173", "http://localhost:8080"},
		"cors.max_age":         "12h",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
//
// An empty dir means "configs".
func Load(dir, profile string) (*Config, error) {
	if dir == "" {
		dir = "configs"
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	keys := envKeyIndex(k.Keys())
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(name, value string) (string, any) {
		key := envToKey(keys, name)
		if _, isList := listKeys[key]; isList {
			return key, splitList(value)
		}

		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyIndex maps the env spelling of every known key (server.shutdown_timeout ->
// server_shutdown_timeout) back to the key, so underscores inside key names survive.
func envKeyIndex(keys []string) map[string]string {
	index := make(map[string]string, len(keys))
	for _, key := range keys {
		index[strings.ReplaceAll(key, ".", "_")] = key
	}

	return index
}

// envToKey resolves APP_SERVER_SHUTDOWN_TIMEOUT to server.shutdown_timeout.
// Unknown variables fall back to replacing every underscore with a dot.
func envToKey(index map[string]string, name string) string {
	flat := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key, ok := index[flat]; ok {
		return key
	}

	return strings.ReplaceAll(flat, "_", ".")
}

// listKeys are the slice-valued keys; their env values are comma separated.
var listKeys = map[string]struct{}{
	"cors.allowed_origins": {},
}

func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
