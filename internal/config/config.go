package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Public base URL of this process, used to build signed start links.
	PublicBaseURL string
	LinkSecret    string

	XClientID     string
	XClientSecret string
	XRedirectURI  string
	XScopes       string

	OCREndpoint   string
	OCRTimeoutSec int

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	ScreenshotBucket string // empty disables the screenshot archive
	SNSTopicARN      string // empty falls back to the log sink

	PendingLinkFile string
	QueueSize       int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	LinkedIdentities    string
	VerificationHistory string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),
		LinkSecret:    getEnv("LINK_SECRET", "default-secret-change-me"),

		XClientID:     getEnv("X_CLIENT_ID", ""),
		XClientSecret: getEnv("X_CLIENT_SECRET", ""),
		XRedirectURI:  getEnv("X_REDIRECT_URI", ""),
		XScopes:       getEnv("X_SCOPES", "users.read tweet.read"),

		OCREndpoint:   getEnv("OCR_ENDPOINT", "http://localhost:9090/detect"),
		OCRTimeoutSec: getEnvInt("OCR_TIMEOUT_SECONDS", 60),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			LinkedIdentities:    getEnv("DYNAMO_TABLE_LINKED_IDENTITIES", "linked_identities"),
			VerificationHistory: getEnv("DYNAMO_TABLE_VERIFICATION_HISTORY", "verification_history"),
		},

		ScreenshotBucket: getEnv("SCREENSHOT_BUCKET", ""),
		SNSTopicARN:      getEnv("SNS_TOPIC_ARN", ""),

		PendingLinkFile: getEnv("PENDING_LINK_FILE", "oauth_pending.json"),
		QueueSize:       getEnvInt("VERIFY_QUEUE_SIZE", 256),

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
