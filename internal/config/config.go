package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"anoa.com/recruitportal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	TrustedProxies []string

	Database database.Config
	RedisURL string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	RateLimitApply     time.Duration
	LoginRatePerMinute int

	LogLevel  string
	LogFormat string

	RecruiterUsername string
	RecruiterPassword string
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "5001"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),

		Database: database.Config{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "recruitment"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		RecruiterUsername: getEnv("RECRUITER_USERNAME", "recruiter"),
		RecruiterPassword: getEnv("RECRUITER_PASSWORD", "recruiter123"),
	}

	var err error
	if cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.RateLimitApply, err = parseDuration(getEnv("RATE_LIMIT_APPLY", "10s")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_APPLY: %w", err)
	}
	if cfg.Database.ConnMaxLifetime, err = parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m")); err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10")); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cfg.LoginRatePerMinute, err = strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "20")); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}
	if cfg.Database.MaxOpenConns, err = strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "20")); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.Database.MaxIdleConns, err = strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "5")); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "change-me"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// splitList reads a comma separated list; blank entries are dropped.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
