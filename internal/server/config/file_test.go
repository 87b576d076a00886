package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func Test_parseFile_JSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	b, err := json.Marshal(map[string]any{
		"http_addr":        ":9000",
		"database_dsn":     "postgres://x",
		"mail_domain":      "example.org",
		"forward_provider": "",
		"forward_timeout":  "10s",
		"smtp_port":        2525,
		"smtp_user":        "user",
		"smtp_password":    "secret",
		"smtp_require_tls": true,
		"archive_bucket":   "archive",
	})
	require.NoError(t, err)
	path := writeTempFile(t, t.TempDir(), "cfg.json", b)

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr, "absent keys keep earlier values")
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, "example.org", cfg.MailDomain)
	assert.Equal(t, "", cfg.ForwardProvider, "explicit empty provider disables forwarding")
	assert.Equal(t, 10*time.Second, cfg.ForwardTimeout)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, "user", cfg.SMTPUser)
	assert.Equal(t, "secret", cfg.SMTPPassword)
	assert.True(t, cfg.SMTPRequireTLS)
	assert.Equal(t, "archive", cfg.ArchiveBucket)
}

func Test_parseFile_YAML(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	yml := []byte(`
grpc_addr: ":6000"
forward_provider: ses
forward_timeout: 1m
ses_region: eu-west-1
log_backend: zap
log_format: json
`)
	path := writeTempFile(t, t.TempDir(), "cfg.yaml", yml)

	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)

	assert.Equal(t, ":6000", cfg.GRPCAddr)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "ses", cfg.ForwardProvider)
	assert.Equal(t, time.Minute, cfg.ForwardTimeout)
	assert.Equal(t, "eu-west-1", cfg.SESRegion)
	assert.Equal(t, "zap", cfg.LogBackend)
	assert.Equal(t, "json", cfg.LogFormat)
}

func Test_parseFile_NoFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{HTTPAddr: "defaults:1234", SMTPPort: 25}
	parseFile(cfg)

	assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
	assert.Equal(t, 25, cfg.SMTPPort)
}

func Test_parseFile_Invalid(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	dir := t.TempDir()

	t.Run("invalid JSON panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", writeTempFile(t, dir, "bad.json", []byte(`{ nope`))}
		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("invalid YAML panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", writeTempFile(t, dir, "bad.yml", []byte("forward_timeout: [1, 2]\n"))}
		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
