package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "FeelingMindful"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultStoreDriver     = StoreMemory
	defaultSQLitePath      = "feeling-mindful.db"
	defaultCORSOrigins     = "*"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultSubmitRateLimit = 10
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	submitRateLimitEnvVar  = "SUBMIT_RATE_LIMIT"
)

// Supported document store drivers.
const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName                  string
	AppEnv                   string
	Port                     string
	LogLevel                 string
	StoreDriver              string
	DatabaseURL              string
	SQLitePath               string
	FirestoreProject         string
	FirestoreCredentialsFile string
	RedisURL                 string
	CORSOrigins              string
	ShutdownPeriod           time.Duration
	IdempotencyTTL           time.Duration
	SubmitRateLimit          int

	// Notification settings. Leaving AWSRegion empty keeps notifications in the log.
	AWSRegion     string
	EmailSender   string
	AdminTopicARN string
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory is honoured when present;
// variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:                  getEnv("APP_NAME", defaultAppName),
		AppEnv:                   getEnv("APP_ENV", defaultAppEnv),
		Port:                     getEnv("PORT", defaultPort),
		LogLevel:                 strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		StoreDriver:              strings.ToLower(getEnv("STORE_DRIVER", defaultStoreDriver)),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		SQLitePath:               getEnv("SQLITE_PATH", defaultSQLitePath),
		FirestoreProject:         os.Getenv("FIRESTORE_PROJECT_ID"),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		CORSOrigins:              getEnv("CORS_ALLOW_ORIGINS", defaultCORSOrigins),
		ShutdownPeriod:           defaultShutdownDelay,
		IdempotencyTTL:           defaultIdempotencyTTL,
		SubmitRateLimit:          defaultSubmitRateLimit,
		AWSRegion:                os.Getenv("AWS_REGION"),
		EmailSender:              os.Getenv("NOTIFY_EMAIL_SENDER"),
		AdminTopicARN:            os.Getenv("NOTIFY_ADMIN_TOPIC_ARN"),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(submitRateLimitEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", submitRateLimitEnvVar, v)
		}
		cfg.SubmitRateLimit = n
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when STORE_DRIVER=%s", StorePostgres)
		}
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, fmt.Errorf("SQLITE_PATH must be set when STORE_DRIVER=%s", StoreSQLite)
		}
	case StoreFirestore:
		if cfg.FirestoreProject == "" {
			return Config{}, fmt.Errorf("FIRESTORE_PROJECT_ID must be set when STORE_DRIVER=%s", StoreFirestore)
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if !cfg.IsDev() {
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.StoreDriver == StoreMemory {
			return Config{}, fmt.Errorf("STORE_DRIVER=%s is only allowed in development", StoreMemory)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func durationFromEnv(secondsVar, durationVar string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsVar, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationVar, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
