package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"assist_backend/internal/logger"

	"github.com/joho/godotenv"
)

// devJWTSecret is only used when DEV_MODE=true and JWT_SECRET is unset.
const devJWTSecret = "dev-only-insecure-secret"

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	AppPort     string
	Version     string
	DevMode     bool
	AutoMigrate bool

	// Storage is "postgres" or, in DEV_MODE only, "memory".
	Storage          string
	DatabaseURL      string
	DatabaseUsername string
	DatabasePassword string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	AllowedOrigin string

	// Telegram operator bot; disabled when the token is empty.
	AdminBotToken string
	AdminBotIDs   []int64

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the process environment. Invalid values are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from an env lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppPort:          stringOr(getenv("APP_PORT"), "8080"),
		Version:          stringOr(getenv("APP_VERSION"), "dev"),
		DevMode:          getenv("DEV_MODE") == "true",
		AutoMigrate:      getenv("AUTO_MIGRATE") == "true",
		Storage:          strings.ToLower(stringOr(getenv("STORAGE"), StoragePostgres)),
		DatabaseURL:      stringOr(getenv("DATABASE_URL"), "postgres://localhost:5432/assist?sslmode=disable"),
		DatabaseUsername: stringOr(getenv("DATABASE_USERNAME"), "assist"),
		DatabasePassword: stringOr(getenv("DATABASE_PASSWORD"), "assist"),
		JWTSecret:        getenv("JWT_SECRET"),
		JWTIssuer:        stringOr(getenv("JWT_ISSUER"), "assist"),
		RedisAddr:        getenv("REDIS_ADDR"),
		RedisPassword:    getenv("REDIS_PASSWORD"),
		AllowedOrigin:    getenv("ALLOWED_ORIGIN"),
		AdminBotToken:    strings.TrimSpace(getenv("ADMIN_BOT_TOKEN")),
		LogLevel:         stringOr(getenv("LOG_LEVEL"), "info"),
		LogFormat:        stringOr(getenv("LOG_FORMAT"), "text"),
	}

	if cfg.JWTSecret == "" {
		if !cfg.DevMode {
			return nil, fmt.Errorf("JWT_SECRET is not set")
		}
		cfg.JWTSecret = devJWTSecret
	}

	switch cfg.Storage {
	case StoragePostgres:
	case StorageMemory:
		if !cfg.DevMode {
			return nil, fmt.Errorf("STORAGE=memory requires DEV_MODE=true")
		}
	default:
		return nil, fmt.Errorf("STORAGE: unknown backend %q", cfg.Storage)
	}

	ttlHours, err := positiveInt(getenv, "JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	if v := strings.TrimSpace(getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REDIS_DB: invalid value %q", v)
		}
		cfg.RedisDB = n
	}

	if cfg.APIRateLimit, err = positiveInt(getenv, "API_RATE_LIMIT", 60); err != nil {
		return nil, err
	}
	window, err := positiveInt(getenv, "API_RATE_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.APIRateWindow = time.Duration(window) * time.Second

	if cfg.AuthRateLimit, err = positiveInt(getenv, "AUTH_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	window, err = positiveInt(getenv, "AUTH_RATE_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.AuthRateWindow = time.Duration(window) * time.Second

	if cfg.AdminBotIDs, err = int64List(getenv("ADMIN_BOT_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_BOT_IDS: %w", err)
	}
	if cfg.AdminBotToken != "" && len(cfg.AdminBotIDs) == 0 {
		return nil, fmt.Errorf("ADMIN_BOT_TOKEN is set but ADMIN_BOT_IDS is empty")
	}

	return cfg, nil
}

// int64List parses a comma separated list such as "1, 2,3".
func int64List(v string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func stringOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: expected a positive integer, got %q", key, v)
	}
	return n, nil
}
