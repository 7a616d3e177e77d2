package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Store        StoreConfig
	DB           DatabaseConfig
	Redis        RedisConfig
	Notification NotificationConfig
	OTP          OTPConfig
	Worker       WorkerConfig
	S3           S3Config
}

// StoreConfig selects the backend that holds the registry blob.
type StoreConfig struct {
	Driver string
	// Key is the single versioned key the registry is stored under.
	Key string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NotificationConfig configures admin alert generation via Groq.
type NotificationConfig struct {
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string
	Timeout     time.Duration
	QueueSize   int
}

// OTPConfig controls shop verification.
type OTPConfig struct {
	// MasterOverride accepts "000000" for every shop. Demo environments only.
	MasterOverride bool
	MaxAttempts    int
	Window         time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SnapshotInterval time.Duration
}

// S3Config contains product image bucket configuration.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Enabled reports whether uploads can be attempted.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Registry store
	cfg.Store = StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
		Key:    getEnv("STORE_KEY", "gtd_market_registry_v1"),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Host:           getEnv("DB_HOST", ""),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", ""),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", ""),
		SSLMode:        getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "file://migrations"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Notifications (Groq)
	cfg.Notification = NotificationConfig{
		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		QueueSize:   getEnvInt("NOTIFICATION_QUEUE_SIZE", 64),
	}

	// OTP
	cfg.OTP = OTPConfig{
		MasterOverride: getEnvBool("OTP_MASTER_OVERRIDE", false),
		MaxAttempts:    getEnvInt("OTP_MAX_ATTEMPTS", 5),
	}

	// S3 product images
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "ap-south-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
	}

	// Durations
	var err error
	if cfg.Notification.Timeout, err = parseDurationEnv("NOTIFICATION_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_TIMEOUT: %w", err)
	}
	if cfg.OTP.Window, err = parseDurationEnv("OTP_ATTEMPT_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid OTP_ATTEMPT_WINDOW: %w", err)
	}
	if cfg.Worker.SnapshotInterval, err = parseDurationEnv("SNAPSHOT_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field requirements that depend on the selected driver.
func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverRedis:
	case StoreDriverPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q: expected memory, redis or postgres", c.Store.Driver)
	}

	if c.Store.Key == "" {
		return errors.New("STORE_KEY must not be empty")
	}
	if c.Notification.QueueSize <= 0 {
		return errors.New("NOTIFICATION_QUEUE_SIZE must be > 0")
	}
	if c.OTP.MaxAttempts <= 0 {
		return errors.New("OTP_MAX_ATTEMPTS must be > 0")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvBool returns the value of an environment variable as a bool or a default if empty/invalid.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
