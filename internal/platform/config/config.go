package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBMemory   = "memory"
	DBMongo    = "mongo"
	DBDynamo   = "dynamodb"
	DBPostgres = "postgres"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string // overrides the per-env default when set

	// Database selection: "memory", "mongo", "dynamodb" or "postgres"
	DBType string

	// MongoDB settings (when DBType = "mongo")
	MongoURI string
	MongoDB  string

	// DynamoDB settings (when DBType = "dynamodb")
	AWSRegion          string
	DynamoDBEndpoint   string // Optional: for local development
	AWSAccessKeyID     string // Optional: for local development
	AWSSecretAccessKey string // Optional: for local development

	// PostgreSQL settings (when DBType = "postgres")
	PostgresDSN string

	// Redis backs the shared rate limiter when set
	RedisAddr     string
	RedisPassword string

	// Timeouts
	HTTPReadTimeoutSec     int
	HTTPWriteTimeoutSec    int
	HTTPIdleTimeoutSec     int
	HTTPRequestTimeoutSec  int
	MongoConnectTimeoutSec int
	StoreOpTimeoutMs       int

	// Worker settings
	WorkerIntervalSec      int
	BacklogStaleAfterHours int

	// Security settings
	APIKey         string   // shared key for service-to-service calls
	JWTSecret      string   // HS256 secret for bearer tokens
	AuthDevHeaders bool     // accept X-User-* headers instead of a token
	AllowedOrigins []string // CORS allowed origins
	RateLimitRPM   int      // Rate limit requests per minute
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "dev")
	cfg.LogLevel = getEnv("LOG_LEVEL", "")
	cfg.DBType = strings.ToLower(getEnv("DB_TYPE", DBMemory))

	// MongoDB settings (check both MONGODB_URI and MONGO_URI for compatibility)
	cfg.MongoURI = getEnv("MONGODB_URI", getEnv("MONGO_URI", ""))
	cfg.MongoDB = getEnv("MONGO_DB", "insureflow")

	// DynamoDB settings
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", "") // Empty means use AWS
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")

	cfg.PostgresDSN = getEnv("POSTGRES_DSN", "")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")

	cfg.HTTPReadTimeoutSec = getEnvAsInt("HTTP_READ_TIMEOUT_SEC", 10)
	cfg.HTTPWriteTimeoutSec = getEnvAsInt("HTTP_WRITE_TIMEOUT_SEC", 10)
	cfg.HTTPIdleTimeoutSec = getEnvAsInt("HTTP_IDLE_TIMEOUT_SEC", 120)
	cfg.HTTPRequestTimeoutSec = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SEC", 30)
	cfg.MongoConnectTimeoutSec = getEnvAsInt("MONGO_CONNECT_TIMEOUT_SEC", 5)
	cfg.StoreOpTimeoutMs = getEnvAsInt("STORE_OP_TIMEOUT_MS", getEnvAsInt("MONGO_OP_TIMEOUT_MS", 2000))
	cfg.WorkerIntervalSec = getEnvAsInt("WORKER_INTERVAL_SEC", 60)
	cfg.BacklogStaleAfterHours = getEnvAsInt("BACKLOG_STALE_AFTER_HOURS", 48)

	// Security settings
	cfg.APIKey = getEnv("API_KEY", "")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AuthDevHeaders = getEnvAsBool("AUTH_DEV_HEADERS", cfg.Env != "prod")
	cfg.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})
	cfg.RateLimitRPM = getEnvAsInt("RATE_LIMIT_RPM", 100) // 100 requests per minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Development defaults only
	if cfg.APIKey == "" {
		cfg.APIKey = "demo-api-key-12345"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-jwt-secret-change-me"
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBType {
	case DBMemory, DBDynamo:
	case DBMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DB_TYPE=mongo")
		}
	case DBPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DB_TYPE=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_TYPE %q", c.DBType)
	}

	if c.WorkerIntervalSec <= 0 {
		return fmt.Errorf("WORKER_INTERVAL_SEC must be > 0")
	}
	if c.StoreOpTimeoutMs <= 0 {
		return fmt.Errorf("STORE_OP_TIMEOUT_MS must be > 0")
	}

	if c.Env == "prod" {
		if c.APIKey == "" {
			return fmt.Errorf("API_KEY is required in production environment")
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production environment")
		}
		if c.AuthDevHeaders {
			return fmt.Errorf("AUTH_DEV_HEADERS must be disabled in production environment")
		}
		if c.DBType == DBMemory {
			return fmt.Errorf("DB_TYPE=memory is not allowed in production environment")
		}
	}
	return nil
}

func (c *Config) StoreOpTimeout() time.Duration {
	return time.Duration(c.StoreOpTimeoutMs) * time.Millisecond
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	// Split by comma and trim whitespace
	var result []string
	for _, s := range strings.Split(valStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
