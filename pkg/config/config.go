package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the brand-onboarder service.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "brand-onboarder"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.
	Port        int    // HTTP API port
	MetricsAddr string // prometheus /metrics listener

	// Flip platform
	BaseURL      string // e.g. https://api.flip.shop
	RefreshToken string // long-lived refresh token; may come from AWS SM instead
	RefreshPath  string // path exchanged for a new access token
	AppPlatform  string
	WebVersion   string
	DeviceFP     string
	HTTPTimeout  time.Duration // applied to every outbound call

	// Batch result store
	RedisAddr string
	RedisDB   int
	RedisPass string
	BatchTTL  time.Duration

	// Optional collaborators
	NATSURL     string // empty disables event publishing
	DatabaseURL string // empty disables the audit log
	StaticDir   string // empty disables frontend serving

	// AWS Secrets Manager fallback for the refresh token
	AWSRegion            string
	RefreshTokenSecretID string
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName: GetEnv("SERVICE_NAME", "brand-onboarder"),
		Env:         GetEnv("ENV", "dev"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		Port:        GetEnvInt("PORT", 5000),
		MetricsAddr: GetEnv("METRICS_ADDR", ":9102"),

		BaseURL:      GetEnv("BASE_URL", ""),
		RefreshToken: GetEnv("REFRESH_TOKEN", ""),
		RefreshPath:  GetEnv("GET_ACCESS_TOKEN_THROUGH_REFRESH_TOKEN_PATH", ""),
		AppPlatform:  GetEnv("APP_PLATFORM", ""),
		WebVersion:   GetEnv("WEB_VERSION", ""),
		DeviceFP:     GetEnv("DEVICE_FP", ""),
		HTTPTimeout:  GetEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		RedisAddr: GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   GetEnvInt("REDIS_DB", 0),
		RedisPass: GetEnv("REDIS_PASS", ""),
		BatchTTL:  GetEnvDuration("BATCH_TTL", 24*time.Hour),

		NATSURL:     GetEnv("NATS_URL", ""),
		DatabaseURL: GetEnv("DATABASE_URL", ""),
		StaticDir:   GetEnv("STATIC_DIR", ""),

		AWSRegion:            GetEnv("AWS_REGION", "us-east-2"),
		RefreshTokenSecretID: GetEnv("REFRESH_TOKEN_SECRET_ID", ""),
	}
}
