package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable with STORE_DRIVER
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	App      AppConfig
	CORS     CORSConfig
	Realtime RealtimeConfig
	Metrics  MetricsConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RealtimeConfig sizes each SSE session buffer and its ping interval
type RealtimeConfig struct {
	Buffer    int
	Keepalive time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type CronConfig struct {
	MarkAbsent bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "trackwise"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", ""),
		Database: getEnv("MONGO_DB", "trackwise"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "trackwise"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Realtime configuration
	buffer, err := strconv.Atoi(getEnv("REALTIME_BUFFER", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid REALTIME_BUFFER: %w", err)
	}

	keepalive, err := time.ParseDuration(getEnv("REALTIME_KEEPALIVE", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REALTIME_KEEPALIVE: %w", err)
	}

	config.Realtime = RealtimeConfig{
		Buffer:    buffer,
		Keepalive: keepalive,
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}
	config.Metrics = MetricsConfig{Enabled: metricsEnabled}

	markAbsent, err := strconv.ParseBool(getEnv("CRON_MARK_ABSENT", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_MARK_ABSENT: %w", err)
	}
	config.Cron = CronConfig{MarkAbsent: markAbsent}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DB is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q: must be one of %s, %s, %s",
			c.Database.Driver, DriverPostgres, DriverMongo, DriverMemory)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Realtime.Buffer <= 0 {
		return fmt.Errorf("REALTIME_BUFFER must be positive")
	}
	if c.Realtime.Keepalive <= 0 {
		return fmt.Errorf("REALTIME_KEEPALIVE must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
