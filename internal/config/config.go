package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// MinProductionSecretLength is the smallest HS256 secret accepted in production
const MinProductionSecretLength = 32

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Login     LoginConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds HS256 signing settings
type JWTConfig struct {
	Secret       string
	ExpirationMs int64
}

// LoginConfig holds failed login throttling settings
type LoginConfig struct {
	MaxAttempts   int
	Window        time.Duration
	Shards        int
	SweepInterval time.Duration // 0 disables the sweeper
}

// RateLimitConfig holds per-client request rate settings
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// CatalogConfig holds exercise catalog settings
type CatalogConfig struct {
	Path string // empty uses the embedded catalog
	Seed bool
}

// Load reads configuration from .env (if present) and the environment
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration from the dotenv file at envPath, if it
// exists, then overlays the process environment.
func LoadFrom(envPath string) (*Config, error) {
	k := koanf.New(".")

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := k.Load(file.Provider(envPath), dotenv.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
			}
		}
	}
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	l := loader{k: k}
	return &Config{
		Server: ServerConfig{
			Port:           l.getEnv("SERVER_PORT", "8080"),
			Env:            l.getEnv("SERVER_ENV", "development"),
			ReadTimeout:    l.getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   l.getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: l.getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      l.getEnv("DB_HOST", "localhost"),
			Port:      l.getEnv("DB_PORT", "8000"),
			Namespace: l.getEnv("DB_NAMESPACE", "fitapi"),
			Database:  l.getEnv("DB_DATABASE", "main"),
			User:      l.getEnv("DB_USER", "root"),
			Password:  l.getEnv("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			Secret:       l.getEnv("JWT_SECRET", ""),
			ExpirationMs: l.getInt64Env("JWT_EXPIRATION_MS", 3_600_000),
		},
		Login: LoginConfig{
			MaxAttempts:   l.getIntEnv("LOGIN_MAX_ATTEMPTS", 5),
			Window:        l.getDurationEnv("LOGIN_WINDOW", 10*time.Minute),
			Shards:        l.getIntEnv("LOGIN_THROTTLE_SHARDS", 32),
			SweepInterval: l.getDurationEnv("LOGIN_THROTTLE_SWEEP_INTERVAL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RPS:   l.getFloatEnv("RATE_LIMIT_RPS", 10),
			Burst: l.getIntEnv("RATE_LIMIT_BURST", 20),
		},
		Catalog: CatalogConfig{
			Path: l.getEnv("EXERCISE_CATALOG_PATH", ""),
			Seed: l.getBoolEnv("SEED_EXERCISES", true),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation - the secret is required everywhere, and must be long in production
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWT.Secret) < MinProductionSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", MinProductionSecretLength))
	}
	if c.JWT.ExpirationMs <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MS must be positive"))
	}

	// Login throttle validation
	if c.Login.MaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Login.Window <= 0 {
		errs = append(errs, errors.New("LOGIN_WINDOW must be positive"))
	}
	if c.Login.Shards <= 0 {
		errs = append(errs, errors.New("LOGIN_THROTTLE_SHARDS must be positive"))
	}
	if c.Login.SweepInterval < 0 {
		errs = append(errs, errors.New("LOGIN_THROTTLE_SWEEP_INTERVAL must not be negative"))
	}

	// Rate limit validation
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// loader reads typed values out of the merged koanf tree

type loader struct {
	k *koanf.Koanf
}

func (l loader) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(l.k.String(key)); value != "" {
		return value
	}
	return defaultValue
}

func (l loader) getIntEnv(key string, defaultValue int) int {
	if value := l.getEnv(key, ""); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func (l loader) getInt64Env(key string, defaultValue int64) int64 {
	if value := l.getEnv(key, ""); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func (l loader) getFloatEnv(key string, defaultValue float64) float64 {
	if value := l.getEnv(key, ""); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func (l loader) getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := l.getEnv(key, ""); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (l loader) getSliceEnv(key string, defaultValue []string) []string {
	if value := l.getEnv(key, ""); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}

func (l loader) getBoolEnv(key string, defaultValue bool) bool {
	if value := l.getEnv(key, ""); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
