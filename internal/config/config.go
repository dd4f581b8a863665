package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const devJWTKey = "dev-secret-change-in-production"

var ErrProductionJWTKey = errors.New("JWT_KEY must be set in production environment")

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool

	JWTKey        string
	JWTIssuer     string
	JWTAudience   string
	JWTExpireDays int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPSSL      bool

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioServiceSID string

	OpenAIAPIKey string
	OpenAIModel  string
	OCRProvider  string

	OTPStore      string
	OTPTTL        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	GoogleUserInfoURL string

	ProviderTimeout        time.Duration
	StrictReceiptOwnership bool
}

// Load reads the configuration from the environment, falling back to
// development defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/digireceipt?parseTime=true"),
		TrustProxy:  getEnvBool("TRUST_PROXY", false),

		JWTKey:        getEnv("JWT_KEY", devJWTKey),
		JWTIssuer:     getEnv("JWT_ISSUER", "digireceipt"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "digireceipt-app"),
		JWTExpireDays: getEnvInt("JWT_EXPIRE_DAYS", 7),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 465),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPSSL:      getEnvBool("SMTP_SSL", true),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioServiceSID: getEnv("TWILIO_SERVICE_SID", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
		OCRProvider:  getEnv("OCR_PROVIDER", "stub"),

		OTPStore:      getEnv("OTP_STORE", "memory"),
		OTPTTL:        getEnvDuration("OTP_TTL", 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		GoogleUserInfoURL: getEnv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),

		ProviderTimeout:        getEnvDuration("PROVIDER_TIMEOUT", 15*time.Second),
		StrictReceiptOwnership: getEnvBool("STRICT_RECEIPT_OWNERSHIP", false),
	}

	if cfg.IsProduction() && cfg.JWTKey == devJWTKey {
		return cfg, ErrProductionJWTKey
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// JWTExpiry converts the configured number of days into a duration.
func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpireDays) * 24 * time.Hour
}

// TwilioConfigured reports whether all Twilio Verify credentials are present.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioServiceSID != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
