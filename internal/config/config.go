package config

import (
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
	S3BucketName string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// SNSTopicARN is the topic real-time notification events are published
	// to. Empty disables the real-time channel; records are still persisted.
	SNSTopicARN string

	GoogleCredentialsPath string
	GoogleCalendarID      string
	CalendarTimeZone      string

	FrontendBaseURL string
	VerificationTTL time.Duration

	JWTPublicKeyPath string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Applications       string
	EventRegistrations string
	Notifications      string
	CareerEvents       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Applications:       getEnv("DYNAMO_TABLE_APPLICATIONS", "applications"),
			EventRegistrations: getEnv("DYNAMO_TABLE_EVENT_REGISTRATIONS", "event_registrations"),
			Notifications:      getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			CareerEvents:       getEnv("DYNAMO_TABLE_CAREER_EVENTS", "career_events"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "careerhub-artifacts"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@careerhub.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),

		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", ""),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		CalendarTimeZone:      getEnv("CALENDAR_TIME_ZONE", "UTC"),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),
		VerificationTTL: time.Duration(getEnvInt("VERIFICATION_TTL_HOURS", 24)) * time.Hour,

		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
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
