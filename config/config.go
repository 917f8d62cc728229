package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port        string
	Environment string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	AI        AIConfig
	RateLimit RateLimitConfig

	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver string // "sqlite" or "mysql"
	DSN    string

	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	Rate    float64
	Burst   int
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        GetEnv("SERVER_PORT", "8090"),
		Environment: GetEnv("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(GetEnv("DB_DRIVER", "sqlite")),
			DSN:      GetEnv("DB_DSN", ""),
			User:     GetEnv("DB_USER", "voteuser"),
			Password: GetEnv("DB_PASSWORD", "votepassword"),
			Host:     GetEnv("DB_HOST", "mysql"),
			Port:     GetEnv("DB_PORT", "3306"),
			Name:     GetEnv("DB_NAME", "electiondb"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", ""),
			Password: GetEnv("REDIS_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		AI: AIConfig{
			APIKey:  os.Getenv("GROQ_API_KEY"),
			Model:   GetEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
			BaseURL: GetEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		},
		AllowedOrigins: allowedOrigins(),
	}

	var err error
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.CacheTTL, err = durationEnv("RESULTS_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Auth.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.Auth.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AI.Timeout, err = durationEnv("AI_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}

	cfg.RateLimit.Enabled = GetEnv("ENABLE_RATE_LIMIT", "true") == "true"
	if cfg.RateLimit.Rate, err = floatEnv("AUTH_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = intEnv("AUTH_RATE_BURST", 10); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.DSN == "" {
			cfg.Database.DSN = "election.db"
		}
	case "mysql":
		if cfg.Database.DSN == "" {
			cfg.Database.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// IsDevelopment reports whether sample data and verbose SQL logging are wanted.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}
	return origins
}
