package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Event bus drivers.
const (
	EventBusMemory = "memory"
	EventBusNATS   = "nats"
)

// Config struct to hold the configuration settings
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	EventBus      EventBusConfig      `yaml:"eventbus"`
	Auth          AuthConfig          `yaml:"auth"`
	Image         ImageConfig         `yaml:"image"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// HTTPConfig holds the HTTP server configuration.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit       float64       `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst       int           `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

// PostgresConfig holds the database configuration. The DSN may point at
// Postgres (postgres://) or at an SQLite file (file:).
type PostgresConfig struct {
	DSN         string `yaml:"dsn" env:"DATABASE_URL"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL"`
}

// EventBusConfig selects the transport for print jobs.
type EventBusConfig struct {
	Driver string `yaml:"driver" env:"EVENTBUS_DRIVER"`
}

// AuthConfig holds the static API keys accepted in the X-API-Key header.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys" env:"API_KEYS" envSeparator:","`

	// Legacy single-key variables.
	APIKey1 string `yaml:"-" env:"API_KEY_1"`
	APIKey2 string `yaml:"-" env:"API_KEY_2"`
}

// ImageConfig holds the URL served by the image endpoint.
type ImageConfig struct {
	URL string `yaml:"url" env:"IMAGE_URL"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment     string  `yaml:"environment" env:"ENV"`
	LogLevel        string  `yaml:"log_level" env:"LOG_LEVEL"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	TraceSampleRate float64 `yaml:"trace_sample_rate" env:"TRACE_SAMPLE_RATE"`
}

// LoadConfig loads the configuration from a YAML file. Environment variables
// override file values. When the file does not exist the configuration is
// built from the environment alone.
func LoadConfig(filename string) (*Config, error) {
	cfg, err := load(filename)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabaseConfig loads only what the migration tooling needs, skipping
// validation of the server settings.
func LoadDatabaseConfig(filename string) (PostgresConfig, error) {
	cfg, err := load(filename)
	if err != nil {
		return PostgresConfig{}, err
	}
	if cfg.Postgres.DSN == "" {
		return PostgresConfig{}, errors.New("DATABASE_URL environment variable not set")
	}
	return cfg.Postgres, nil
}

func load(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env only
	default:
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8676"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 10
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 20
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.EventBus.Driver == "" {
		c.EventBus.Driver = EventBusMemory
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.TraceSampleRate <= 0 {
		c.Observability.TraceSampleRate = 0.1
	}
}

// Validate reports configuration that cannot be used to start the server.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	switch c.EventBus.Driver {
	case EventBusMemory:
	case EventBusNATS:
		if c.NATS.URL == "" {
			return errors.New("NATS_URL environment variable not set")
		}
	default:
		return fmt.Errorf("unknown event bus driver %q", c.EventBus.Driver)
	}
	if len(c.APIKeys()) == 0 {
		return errors.New("no API keys configured")
	}
	return nil
}

// APIKeys returns every configured non-empty API key.
func (c *Config) APIKeys() []string {
	candidates := append([]string{}, c.Auth.APIKeys...)
	candidates = append(candidates, c.Auth.APIKey1, c.Auth.APIKey2)

	keys := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, k := range candidates {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// IsDevelopment reports whether the server runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Observability.Environment == "development"
}
