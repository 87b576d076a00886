package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/mailgate/internal/flagx"
	"github.com/dmitrijs2005/mailgate/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration. Pointer and
// zero-value fields left out of the file do not override earlier layers.
type FileConfig struct {
	HTTPAddr    string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr    string `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"`

	MailDomain      string          `json:"mail_domain" yaml:"mail_domain"`
	ForwardFrom     string          `json:"forward_from" yaml:"forward_from"`
	ForwardProvider *string         `json:"forward_provider" yaml:"forward_provider"`
	ForwardTimeout  *timex.Duration `json:"forward_timeout" yaml:"forward_timeout"`
	WebhookMaxBytes int64           `json:"webhook_max_bytes" yaml:"webhook_max_bytes"`
	BcryptCost      int             `json:"bcrypt_cost" yaml:"bcrypt_cost"`

	SMTPHost       string `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort       int    `json:"smtp_port" yaml:"smtp_port"`
	SMTPUser       string `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword   string `json:"smtp_password" yaml:"smtp_password"`
	SMTPRequireTLS *bool  `json:"smtp_require_tls" yaml:"smtp_require_tls"`

	SESRegion          string `json:"ses_region" yaml:"ses_region"`
	SESAccessKeyID     string `json:"ses_access_key_id" yaml:"ses_access_key_id"`
	SESSecretAccessKey string `json:"ses_secret_access_key" yaml:"ses_secret_access_key"`

	ArchiveBucket  string `json:"archive_bucket" yaml:"archive_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key" yaml:"s3_secret_key"`

	LogLevel   string `json:"log_level" yaml:"log_level"`
	LogFormat  string `json:"log_format" yaml:"log_format"`
	LogBackend string `json:"log_backend" yaml:"log_backend"`
}

// parseFile loads the file named by -c/-config, if any, and overlays its
// values on config. Files ending in .yaml or .yml are read as YAML, all
// others as JSON. An unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	fc := &FileConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return nil, err
		}
	}

	return fc, nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCAddr, fc.GRPCAddr)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)

	setString(&c.MailDomain, fc.MailDomain)
	setString(&c.ForwardFrom, fc.ForwardFrom)
	if fc.ForwardProvider != nil {
		c.ForwardProvider = *fc.ForwardProvider
	}
	if fc.ForwardTimeout != nil {
		c.ForwardTimeout = fc.ForwardTimeout.Duration
	}
	if fc.WebhookMaxBytes > 0 {
		c.WebhookMaxBytes = fc.WebhookMaxBytes
	}
	if fc.BcryptCost > 0 {
		c.BcryptCost = fc.BcryptCost
	}

	setString(&c.SMTPHost, fc.SMTPHost)
	if fc.SMTPPort > 0 {
		c.SMTPPort = fc.SMTPPort
	}
	setString(&c.SMTPUser, fc.SMTPUser)
	setString(&c.SMTPPassword, fc.SMTPPassword)
	if fc.SMTPRequireTLS != nil {
		c.SMTPRequireTLS = *fc.SMTPRequireTLS
	}

	setString(&c.SESRegion, fc.SESRegion)
	setString(&c.SESAccessKeyID, fc.SESAccessKeyID)
	setString(&c.SESSecretAccessKey, fc.SESSecretAccessKey)

	setString(&c.ArchiveBucket, fc.ArchiveBucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3AccessKey, fc.S3AccessKey)
	setString(&c.S3SecretKey, fc.S3SecretKey)

	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.LogBackend, fc.LogBackend)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
