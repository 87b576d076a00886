package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overrides config with values from environment variables.
// Malformed numeric, boolean or duration values are ignored.
func parseEnv(config *Config) {
	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.GRPCAddr, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")

	envString(&config.MailDomain, "MAIL_DOMAIN")
	envString(&config.ForwardFrom, "FORWARD_FROM")
	if v, ok := os.LookupEnv("FORWARD_PROVIDER"); ok {
		config.ForwardProvider = v
	}
	if v := os.Getenv("FORWARD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ForwardTimeout = d
		}
	}
	if v := os.Getenv("WEBHOOK_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			config.WebhookMaxBytes = n
		}
	}

	envString(&config.SMTPHost, "SMTP_HOST")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = p
		}
	}
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASSWORD")
	if v := os.Getenv("SMTP_REQUIRE_TLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.SMTPRequireTLS = b
		}
	}

	envString(&config.SESRegion, "SES_REGION")
	envString(&config.SESAccessKeyID, "SES_ACCESS_KEY_ID")
	envString(&config.SESSecretAccessKey, "SES_SECRET_ACCESS_KEY")

	envString(&config.ArchiveBucket, "ARCHIVE_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3AccessKey, "S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "S3_SECRET_KEY")

	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.LogFormat, "LOG_FORMAT")
	envString(&config.LogBackend, "LOG_BACKEND")
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
