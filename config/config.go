// Package config loads server configuration from the environment.
//
// An optional .env file is read first; variables already set in the
// environment take precedence over it. API_KEY and JWT_SECRET may hold
// secret references (secretref:env:NAME, secretref:file:/path), which are
// resolved at load time.
package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/secret"
)

// Rate limit identifier policies.
const (
	ScopeOperation = "operation"
	ScopeShared    = "shared"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all server configuration.
type Config struct {
	// APIKey is the shared API key. MCP_API_KEY is read when API_KEY is unset.
	APIKey       string `envconfig:"API_KEY"`
	LegacyAPIKey string `envconfig:"MCP_API_KEY"`
	JWTSecret    string `envconfig:"JWT_SECRET"`

	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
	NRCC      NRCCConfig      `envconfig:"NRCC"`
	Server    ServerConfig    `envconfig:"SERVER"`

	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	ServiceName     string  `envconfig:"SERVICE_NAME" default:"nrcc-search"`
	LogLevel        string  `envconfig:"LOG_LEVEL" default:"info"`
	MetricsExporter string  `envconfig:"METRICS_EXPORTER" default:"prometheus"`
	TracingExporter string  `envconfig:"TRACING_EXPORTER" default:"none"`
	TraceSamplePct  float64 `envconfig:"TRACE_SAMPLE_PCT" default:"1"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	MaxCalls      int    `envconfig:"MAX_CALLS" default:"50"`
	WindowSeconds int    `envconfig:"WINDOW_SECONDS" default:"3600"`
	Scope         string `envconfig:"SCOPE" default:"operation"`
}

// Window returns the window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// NRCCConfig holds upstream database configuration.
type NRCCConfig struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://whpdj.mem.gov.cn/internet/common/chemical"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"8000"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads files (".env" when none are given) into the environment,
// processes the environment and validates the result. Missing files are
// ignored.
func Load(ctx context.Context, files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = cfg.LegacyAPIKey
	}
	cfg.LegacyAPIKey = ""

	if err := secret.DefaultResolver().ResolveAll(ctx, &cfg.APIKey, &cfg.JWTSecret); err != nil {
		return nil, fmt.Errorf("failed to resolve secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.RateLimit.MaxCalls <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_MAX_CALLS must be positive, got %d", ErrInvalid, c.RateLimit.MaxCalls)
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", ErrInvalid, c.RateLimit.WindowSeconds)
	}
	switch c.RateLimit.Scope {
	case ScopeOperation, ScopeShared:
	default:
		return fmt.Errorf("%w: RATE_LIMIT_SCOPE must be %q or %q, got %q", ErrInvalid, ScopeOperation, ScopeShared, c.RateLimit.Scope)
	}

	u, err := url.Parse(c.NRCC.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: NRCC_BASE_URL must be an absolute http(s) URL, got %q", ErrInvalid, c.NRCC.BaseURL)
	}
	if c.NRCC.Timeout <= 0 {
		return fmt.Errorf("%w: NRCC_TIMEOUT must be positive, got %s", ErrInvalid, c.NRCC.Timeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: CACHE_TTL must not be negative, got %s", ErrInvalid, c.CacheTTL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: SERVER_PORT out of range: %d", ErrInvalid, c.Server.Port)
	}

	obs := c.Observe("")
	if err := obs.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Observe returns the telemetry configuration.
func (c *Config) Observe(version string) observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(c.TracingExporter),
			Exporter:  c.TracingExporter,
			SamplePct: c.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  enabled(c.MetricsExporter),
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}
