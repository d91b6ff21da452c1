package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	OTPTTL       time.Duration

	SMSProvider       string // "magfa" | "sns" | "" (delivery disabled)
	MagfaAPIURL       string
	MagfaUsername     string
	MagfaPassword     string
	MagfaDomain       string
	MagfaSenderNumber string
	SNSRegion         string

	AllowedEmailDomain string

	SMTPHost        string
	SMTPPort        string
	SMTPFrom        string
	SMTPUsername    string
	SMTPPassword    string
	LeadNotifyEmail string // empty disables the new-lead notification

	S3BucketName string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	AdminUsername     string
	AdminPasswordHash string // bcrypt

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each collection.
type DynamoTables struct {
	OTP   string
	Leads string
}

// Load reads all configuration from environment variables and validates it.
// Required values have no fallback: a missing AWS region or a malformed
// numeric value fails startup instead of running half-configured.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      os.Getenv("AWS_REGION"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			OTP:   getEnv("DYNAMO_TABLE_OTP", "otp"),
			Leads: getEnv("DYNAMO_TABLE_LEADS", "leads"),
		},

		SMSProvider:       getEnv("SMS_PROVIDER", "magfa"),
		MagfaAPIURL:       getEnv("MAGFA_API_URL", "https://messaging.magfa.com/api/messages"),
		MagfaUsername:     os.Getenv("MAGFA_USERNAME"),
		MagfaPassword:     os.Getenv("MAGFA_PASSWORD"),
		MagfaDomain:       os.Getenv("MAGFA_DOMAIN"),
		MagfaSenderNumber: getEnv("MAGFA_SENDER_NUMBER", ""),
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),

		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "systemgroup.net"),

		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "1025"),
		SMTPFrom:        getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		LeadNotifyEmail: getEnv("LEAD_NOTIFY_EMAIL", ""),

		S3BucketName: getEnv("S3_BUCKET_NAME", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("AWS_REGION is required")
	}

	ttlMs, err := getEnvInt("OTP_TTL_MS", 60_000)
	if err != nil {
		return nil, err
	}
	if ttlMs <= 0 {
		return nil, fmt.Errorf("OTP_TTL_MS must be positive, got %d", ttlMs)
	}
	cfg.OTPTTL = time.Duration(ttlMs) * time.Millisecond

	expiryHours, err := getEnvInt("JWT_EXPIRY_HOURS", 12)
	if err != nil {
		return nil, err
	}
	cfg.JWTExpiry = time.Duration(expiryHours) * time.Hour

	switch cfg.SMSProvider {
	case "magfa", "sns", "":
	default:
		return nil, fmt.Errorf("unknown SMS_PROVIDER %q (want magfa, sns or empty)", cfg.SMSProvider)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
// Non-production responses may expose the issued OTP code for test visibility.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
