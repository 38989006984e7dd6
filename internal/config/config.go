package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the storage core and its maintenance
// service. Environment variables are parsed from the BOTSTORE_ prefix,
// e.g. BOTSTORE_POSTGRES_DSN, BOTSTORE_REDIS_ADDR.
type Config struct {
	// Durable tier. Driver is "auto", "postgres" or "sqlite"; auto picks
	// postgres when a DSN is set, sqlite when a path is set, otherwise the
	// durable tier stays unconfigured and the engine degrades.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Distributed tier. Empty address leaves tier 2 unconfigured.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Per-tier expiry policy.
	MemoryTTLSeconds  int `envconfig:"MEMORY_TTL_SECONDS" default:"86400"`
	RedisTTLSeconds   int `envconfig:"REDIS_TTL_SECONDS" default:"259200"`
	DurableTTLSeconds int `envconfig:"DURABLE_TTL_SECONDS" default:"2592000"`

	// Background maintenance cadence.
	SweepIntervalSeconds int `envconfig:"SWEEP_INTERVAL_SECONDS" default:"60"`
	PurgeIntervalSeconds int `envconfig:"PURGE_INTERVAL_SECONDS" default:"300"`

	// Janitor service HTTP surface (/healthz, /metrics).
	HTTPPort                  int `envconfig:"HTTP_PORT" default:"8085"`
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Unthread API client (customer creation collaborator).
	UnthreadBaseURL string `envconfig:"UNTHREAD_BASE_URL" default:"https://api.unthread.io/api"`
	UnthreadAPIKey  string `envconfig:"UNTHREAD_API_KEY" default:""`
}

// ResolveDefaults validates the driver selection and derives it when "auto".
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		switch {
		case c.PostgresDSN != "":
			c.DBDriver = "postgres"
		case c.SQLitePath != "":
			c.DBDriver = "sqlite"
		default:
			c.DBDriver = "none"
		}
	}

	allowed := map[string]bool{"postgres": true, "sqlite": true, "none": true}
	if !allowed[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("BOTSTORE_POSTGRES_DSN is required when DB_DRIVER=postgres")
	}
	if c.DBDriver == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("BOTSTORE_SQLITE_PATH is required when DB_DRIVER=sqlite")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("BOTSTORE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Bool("redis_configured", cfg.RedisAddr != "").
		Int("memory_ttl_s", cfg.MemoryTTLSeconds).
		Int("redis_ttl_s", cfg.RedisTTLSeconds).
		Int("durable_ttl_s", cfg.DurableTTLSeconds).
		Int("http_port", cfg.HTTPPort).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests: no external tiers,
// short maintenance intervals.
func NewForTesting() *Config {
	return &Config{
		DBDriver:                  "none",
		MemoryTTLSeconds:          86400,
		RedisTTLSeconds:           259200,
		DurableTTLSeconds:         2592000,
		SweepIntervalSeconds:      1,
		PurgeIntervalSeconds:      1,
		HTTPPort:                  8085,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// MemoryTTL returns the tier-1 expiry as a duration.
func (c *Config) MemoryTTL() time.Duration {
	return time.Duration(c.MemoryTTLSeconds) * time.Second
}

// RedisTTL returns the tier-2 expiry as a duration.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.RedisTTLSeconds) * time.Second
}

// DurableTTL returns the tier-3 expiry as a duration.
func (c *Config) DurableTTL() time.Duration {
	return time.Duration(c.DurableTTLSeconds) * time.Second
}

// GetHTTPAddr returns the janitor HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
