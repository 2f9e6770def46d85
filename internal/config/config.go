package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"tarjetas/internal/backend"
	sheetstore "tarjetas/internal/records/google"
	s3store "tarjetas/internal/records/s3"
)

type Config struct {
	// HTTP Server
	Port               string
	CORSAllowedOrigins []string
	RateLimitPerMinute int

	// Dataset
	CreditPath            string
	DefaultStatementIndex int
	AutoSave              bool

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Workers
	MirrorLocations  []string
	SyncInterval     time.Duration
	RolloverSchedule string

	// S3
	AWSRegion           string
	AWSEndpointURLS3    string
	AWSS3ForcePathStyle bool
	S3AccessKeyID       string
	S3SecretAccessKey   string

	// Azure Blob
	AzureStorageAccountURL string

	// Google Sheets
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleOAuthClientJSON    string
	GoogleOAuthClientFile    string
	GoogleOAuthTokenJSON     string
	GoogleOAuthTokenFile     string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		CreditPath:            getEnv("CREDIT_JSON_PATH", "./data/credits.jsonl"),
		DefaultStatementIndex: getEnvInt("CREDIT_STATEMENT_ID", -1),
		AutoSave:              getEnvBool("AUTOSAVE", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tarjetas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "credits_saved"),

		MirrorLocations:  getEnvList("MIRROR_LOCATIONS"),
		SyncInterval:     getEnvDuration("SYNC_INTERVAL", time.Hour),
		RolloverSchedule: getEnv("ROLLOVER_SCHEDULE", ""),

		AWSRegion:           getEnv("AWS_REGION", ""),
		AWSEndpointURLS3:    getEnv("AWS_ENDPOINT_URL_S3", ""),
		AWSS3ForcePathStyle: getEnvBool("AWS_S3_FORCE_PATH_STYLE", false),
		S3AccessKeyID:       getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),

		AzureStorageAccountURL: getEnv("AZURE_STORAGE_ACCOUNT_URL", ""),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		GoogleOAuthClientJSON:    getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthClientFile:    getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenJSON:     getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),
		GoogleOAuthTokenFile:     getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	primary, err := backend.ParseLocation(c.CreditPath)
	if err != nil {
		errors = append(errors, fmt.Sprintf("invalid CREDIT_JSON_PATH: %v", err))
	}

	for _, m := range c.MirrorLocations {
		loc, err := backend.ParseLocation(m)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid mirror location: %v", err))
			continue
		}
		if primary.Raw != "" && loc.SameAs(primary) {
			errors = append(errors, fmt.Sprintf("mirror location '%s' is the primary location", m))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if c.RolloverSchedule != "" {
		if _, err := cron.ParseStandard(c.RolloverSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid rollover schedule '%s': %v", c.RolloverSchedule, err))
		}
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Backend returns the client settings the store factory needs.
func (c *Config) Backend() backend.Config {
	return backend.Config{
		S3: s3store.Config{
			Region:          c.AWSRegion,
			Endpoint:        c.AWSEndpointURLS3,
			ForcePathStyle:  c.AWSS3ForcePathStyle,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
		},
		AzureServiceURL: c.AzureStorageAccountURL,
		GoogleCredentials: sheetstore.Credentials{
			JSON:            c.GoogleServiceAccountJSON,
			File:            c.GoogleServiceAccountFile,
			OAuthClientJSON: c.GoogleOAuthClientJSON,
			OAuthClientFile: c.GoogleOAuthClientFile,
			OAuthTokenJSON:  c.GoogleOAuthTokenJSON,
			OAuthTokenFile:  c.GoogleOAuthTokenFile,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
