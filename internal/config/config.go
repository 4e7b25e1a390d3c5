package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type InvoiceServiceConfig struct {
	Port          string
	APIKey        string
	StoreDriver   string // postgres | memory
	CORSOrigins   []string
	PostgresCfg   PostgresConfig
	RedisCfg      RedisConfig
	MinioCfg      MinioConfig
	RabbitMQCfg   RabbitMQConfig
	AuthCfg       AuthConfig
	ExtractionCfg ExtractionConfig
	PaymentCfg    PaymentConfig
	ReminderCfg   ReminderConfig
	StorageCfg    StorageConfig
	LogCfg        LogConfig
	AdminSeedCfg  AdminSeedConfig
	WorkerCfg     WorkerConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    string
	MinioLocation  string
	Bucket         string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	SessionDriver string // redis | memory
}

type ExtractionConfig struct {
	Transport string // http | amqp | none
	URL       string
	Timeout   time.Duration
}

type PaymentConfig struct {
	SettlementMode string // full | reconcile
}

type ReminderConfig struct {
	FeedSchedule string
	FeedEnabled  bool
}

type StorageConfig struct {
	Driver       string // minio | local
	LocalDir     string
	MaxFileBytes int64
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type AdminSeedConfig struct {
	Username string
	Password string
}

type WorkerConfig struct {
	NumWorkers int
	QueueSize  int
}

// Load reads .env when one exists and then builds the config from the environment.
func Load() *InvoiceServiceConfig {
	_ = godotenv.Load()
	return New()
}

func New() *InvoiceServiceConfig {
	return &InvoiceServiceConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		APIKey:      getEnvOrDefault("API_KEY", ""),
		StoreDriver: getEnvOrDefault("STORE_DRIVER", "postgres"),
		CORSOrigins: getListOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("DB_NAME", "invoice_service"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PWD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "localhost:9000"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minioadmin"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			Bucket:         getEnvOrDefault("MINIO_BUCKET", "invoice-files"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "guest"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "guest"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		AuthCfg: AuthConfig{
			JWTSecret:     getEnvOrDefault("JWT_SECRET", ""),
			TokenTTL:      getDurationOrDefault("JWT_TTL", 24*time.Hour),
			SessionDriver: getEnvOrDefault("SESSION_DRIVER", "redis"),
		},
		ExtractionCfg: ExtractionConfig{
			Transport: getEnvOrDefault("EXTRACTION_TRANSPORT", "http"),
			URL:       getEnvOrDefault("EXTRACTION_SERVICE_URL", "http://localhost:8000/api/extract-invoice"),
			Timeout:   getDurationOrDefault("EXTRACTION_TIMEOUT", 30*time.Second),
		},
		PaymentCfg: PaymentConfig{
			SettlementMode: getEnvOrDefault("PAYMENT_SETTLEMENT_MODE", "full"),
		},
		ReminderCfg: ReminderConfig{
			FeedSchedule: getEnvOrDefault("REMINDER_FEED_SCHEDULE", "0 8 * * *"),
			FeedEnabled:  getBoolOrDefault("REMINDER_FEED_ENABLED", false),
		},
		StorageCfg: StorageConfig{
			Driver:       getEnvOrDefault("FILE_STORAGE_DRIVER", "minio"),
			LocalDir:     getEnvOrDefault("FILE_STORAGE_DIR", "uploads"),
			MaxFileBytes: int64(getIntOrDefault("MAX_UPLOAD_BYTES", 10<<20)),
		},
		LogCfg: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
			Output: getEnvOrDefault("LOG_OUTPUT", "stdout"),
		},
		AdminSeedCfg: AdminSeedConfig{
			Username: getEnvOrDefault("ADMIN_USERNAME", "admin"),
			Password: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
		},
		WorkerCfg: WorkerConfig{
			NumWorkers: getIntOrDefault("EXTRACTION_WORKERS", 4),
			QueueSize:  getIntOrDefault("EXTRACTION_QUEUE_SIZE", 100),
		},
	}
}

// Validate reports the first setting the service cannot start with.
func (c *InvoiceServiceConfig) Validate() error {
	if len(c.AuthCfg.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.AuthCfg.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if err := oneOf("STORE_DRIVER", c.StoreDriver, "postgres", "memory"); err != nil {
		return err
	}
	if err := oneOf("SESSION_DRIVER", c.AuthCfg.SessionDriver, "redis", "memory"); err != nil {
		return err
	}
	if err := oneOf("FILE_STORAGE_DRIVER", c.StorageCfg.Driver, "minio", "local"); err != nil {
		return err
	}
	if err := oneOf("EXTRACTION_TRANSPORT", c.ExtractionCfg.Transport, "http", "amqp", "none"); err != nil {
		return err
	}
	if err := oneOf("PAYMENT_SETTLEMENT_MODE", c.PaymentCfg.SettlementMode, "full", "reconcile"); err != nil {
		return err
	}
	if c.ExtractionCfg.Timeout <= 0 {
		return fmt.Errorf("EXTRACTION_TIMEOUT must be positive")
	}
	if c.WorkerCfg.NumWorkers <= 0 || c.WorkerCfg.QueueSize <= 0 {
		return fmt.Errorf("EXTRACTION_WORKERS and EXTRACTION_QUEUE_SIZE must be positive")
	}
	if c.StorageCfg.MaxFileBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// UsesAMQP reports whether any component needs a broker connection.
func (c *InvoiceServiceConfig) UsesAMQP() bool {
	return c.ExtractionCfg.Transport == "amqp" || c.ReminderCfg.FeedEnabled
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getListOrDefault splits a comma separated value, dropping blanks.
func getListOrDefault(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnvOrDefault(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
