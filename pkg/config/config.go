package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/xianli123/rhoai-project-permission/pkg/observability"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "PERMS"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Env             string        `envconfig:"ENV" default:"development"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"65536"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"300"`
	RateWindow      time.Duration `envconfig:"RATE_WINDOW" default:"1m"`

	// Metrics and health server (separate port for probes)
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`

	// Logging
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"10"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`

	// Audit events go to the application log unless a file is set
	AuditFile string `envconfig:"AUDIT_FILE"`

	// Fixtures
	FixturesPath  string `envconfig:"FIXTURES_PATH"`
	WatchFixtures bool   `envconfig:"WATCH_FIXTURES" default:"false"`

	// Sessions
	SessionCacheSize int           `envconfig:"SESSION_CACHE_SIZE" default:"128"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	ReportSchedule   string        `envconfig:"REPORT_SCHEDULE" default:"@every 1m"`
}

// LoadConfig loads configuration from PERMS_* environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.MetricsPort == "" {
		return fmt.Errorf("metrics port is required")
	}
	if c.Port == c.MetricsPort {
		return fmt.Errorf("server port and metrics port must be different")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("rate limit and rate window must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("session cache size must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.WatchFixtures && c.FixturesPath == "" {
		return fmt.Errorf("fixtures path is required when watching fixtures")
	}
	if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", c.ReportSchedule, err)
	}
	return nil
}

// IsDevelopment reports whether the process runs outside production
func (c *Config) IsDevelopment() bool {
	return !strings.EqualFold(c.Env, "production")
}

// Addr returns the API listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// MetricsAddr returns the metrics and health listen address
func (c *Config) MetricsAddr() string {
	return net.JoinHostPort(c.Host, c.MetricsPort)
}

// Logger returns the logging settings
func (c *Config) Logger() observability.LoggerConfig {
	return observability.LoggerConfig{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
	}
}
