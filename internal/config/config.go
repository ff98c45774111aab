package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Patterns  PatternsConfig  `yaml:"patterns"`
	History   HistoryConfig   `yaml:"history"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig is optional. Without a URL history is disabled and patterns
// fall back to PatternsConfig.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type CatalogConfig struct {
	Path string `yaml:"path"` // empty selects the built-in catalog
}

// PatternsConfig selects a local bbolt file for patterns when no database is
// configured. With neither, patterns live in memory.
type PatternsConfig struct {
	File string `yaml:"file"`
}

type HistoryConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type RateLimitConfig struct {
	Default    int           `yaml:"default"` // requests per window per client; 0 disables
	Window     time.Duration `yaml:"window"`
	TrustProxy bool          `yaml:"trust_proxy"` // key clients by X-Forwarded-For/X-Real-IP
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AuthConfig struct {
	AdminKeyHash string `yaml:"admin_key_hash"` // bcrypt; empty disables admin routes
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		History: HistoryConfig{
			Enabled:       true,
			BatchSize:     100,
			FlushInterval: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Default: 120,
			Window:  time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envRef matches ${VAR}. Bare $VAR is left alone so bcrypt hashes survive.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[2 : len(m)-1])
	})
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NAMEGEN_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("NAMEGEN_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NAMEGEN_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("NAMEGEN_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("NAMEGEN_PATTERNS_FILE"); v != "" {
		cfg.Patterns.File = v
	}
	if v := os.Getenv("NAMEGEN_ADMIN_KEY_HASH"); v != "" {
		cfg.Auth.AdminKeyHash = v
	}
	if v := os.Getenv("NAMEGEN_TRUST_PROXY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RateLimit.TrustProxy = b
		}
	}
	if v := os.Getenv("NAMEGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.History.Enabled {
		if c.History.BatchSize <= 0 {
			return errors.New("history.batch_size must be positive")
		}
		if c.History.FlushInterval <= 0 {
			return errors.New("history.flush_interval must be positive")
		}
	}
	if c.RateLimit.Default < 0 {
		return errors.New("rate_limit.default must not be negative")
	}
	if c.RateLimit.Default > 0 && c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

// PatternBackend names the store patterns are kept in: "postgres", "bolt"
// or "memory".
func (c *Config) PatternBackend() string {
	switch {
	case c.Database.URL != "":
		return "postgres"
	case c.Patterns.File != "":
		return "bolt"
	default:
		return "memory"
	}
}

// HistoryEnabled reports whether generations are persisted.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled && c.Database.URL != ""
}

func (c *Config) MigrationsSource() string {
	return "file://migrations"
}

func (c *Config) DatabaseURLForMigrate() string {
	url := c.Database.URL
	if !strings.Contains(url, "sslmode=") {
		if strings.Contains(url, "?") {
			url += "&sslmode=disable"
		} else {
			url += "?sslmode=disable"
		}
	}
	return url
}
