package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	AllowedOrigins []string // CORS allowed origins

	UploadDir      string
	UploadMaxBytes int64
	StorageBackend string // "local" | "s3"
	S3BucketName   string

	OTPTTL         time.Duration
	OTPMaxAttempts int
	OTPStore       string // "memory" | "redis" | "dynamo"

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret         string
	JWTPrivateKeyPath string // RS256 is used when both key paths are set
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoEnabled  bool
	DynamoTables   DynamoTables

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion    string
	SMSEnabled   bool

	GoogleClientID string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users      string
	Files      string
	Properties string
	OTPs       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", 50<<20),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		S3BucketName:   getEnv("S3_BUCKET_NAME", "addisnest-uploads"),

		OTPTTL:         getEnvDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 5),
		OTPStore:       getEnv("OTP_STORE", "memory"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoEnabled:  getEnvBool("DYNAMO_ENABLED", true),
		DynamoTables: DynamoTables{
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Files:      getEnv("DYNAMO_TABLE_FILES", "files"),
			Properties: getEnv("DYNAMO_TABLE_PROPERTIES", "properties"),
			OTPs:       getEnv("DYNAMO_TABLE_OTPS", "otps"),
		},

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@addisnest.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),
		SMSEnabled:   getEnvBool("SMS_ENABLED", false),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
	}
}

// IsProduction reports whether the service runs with production semantics
// (OTP codes are never echoed back to the client).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
