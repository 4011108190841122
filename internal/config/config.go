package config

import (
	"fmt"     // Error wrapping
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // Durations

	"github.com/joho/godotenv"             // For loading .env files
	toml "github.com/pelletier/go-toml/v2" // Optional TOML config file
	"github.com/sirupsen/logrus"           // Warnings for malformed values
)

// DefaultSecretKey is only meant for local development.
const DefaultSecretKey = "cryptonest-dev-key-change-in-production"

// Config holds the application configuration
type Config struct {
	Env      string         `toml:"env"`        // development, production
	Port     string         `toml:"port"`       // Application port
	LogLevel string         `toml:"log_level"`  // logrus level name
	IsProd   bool           `toml:"is_prod"`    // Is production environment
	Secret   string         `toml:"secret_key"` // Session signing key
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Prices   PricesConfig   `toml:"prices"`
	Session  SessionConfig  `toml:"session"`
}

// DatabaseConfig selects the relational store
type DatabaseConfig struct {
	Driver string `toml:"driver"` // sqlite, mysql or postgres
	DSN    string `toml:"dsn"`    // File path for sqlite, DSN otherwise
}

// RedisConfig is optional; an empty Addr keeps sessions in memory
type RedisConfig struct {
	Addr     string `toml:"addr"`     // Redis server address
	Password string `toml:"password"` // Redis password
	DB       int    `toml:"db"`       // Redis database number
}

// PricesConfig configures the external price API
type PricesConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the timeout, falling back to 10s
func (c PricesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// SessionConfig configures the session cookie
type SessionConfig struct {
	TTL          string `toml:"ttl"`
	CookieSecure bool   `toml:"cookie_secure"`
}

// GetTTL parses the session lifetime, falling back to 24h
func (c SessionConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Env:      "development",
		Port:     "5000",
		LogLevel: "info",
		Secret:   DefaultSecretKey,
		Database: DatabaseConfig{Driver: "sqlite", DSN: "cryptonest.db"},
		Prices:   PricesConfig{BaseURL: "https://api.coingecko.com/api/v3", Timeout: "10s"},
		Session:  SessionConfig{TTL: "24h"},
	}
}

// LoadConfig loads configuration from .env, an optional TOML file and environment variables.
// Environment variables win over the file, the file wins over defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getenv("APP_ENV", cfg.Env)
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.IsProd = getbool("IS_PROD", cfg.IsProd || cfg.Env == "production")
	cfg.Secret = getenv("SECRET_KEY", cfg.Secret)

	cfg.Database.Driver = getenv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getenv("DB_DSN", cfg.Database.DSN)

	cfg.Redis.Addr = getenv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getenv("REDIS_PASS", cfg.Redis.Password)
	cfg.Redis.DB = getint("REDIS_DB", cfg.Redis.DB)

	cfg.Prices.BaseURL = getenv("PRICE_API_URL", cfg.Prices.BaseURL)
	cfg.Prices.Timeout = getenv("PRICE_TIMEOUT", cfg.Prices.Timeout)

	cfg.Session.TTL = getenv("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.CookieSecure = getbool("COOKIE_SECURE", cfg.Session.CookieSecure)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logrus.Warnf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			logrus.Warnf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}
