package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8080", "-g", "127.0.0.1:9090", "-d", "db",
				"-m", "example.org", "-f", "relay@example.org", "-p", "stdout",
				"-t", "5s", "-b", "archive", "-l", "debug",
			},
			expected: &Config{
				HTTPAddr:        "127.0.0.1:8080",
				GRPCAddr:        "127.0.0.1:9090",
				DatabaseDSN:     "db",
				MailDomain:      "example.org",
				ForwardFrom:     "relay@example.org",
				ForwardProvider: "stdout",
				ForwardTimeout:  5 * time.Second,
				ArchiveBucket:   "archive",
				LogLevel:        "debug",
			},
		},
		{
			name:     "config flag is ignored",
			args:     []string{"cmd", "-c", "/etc/mailgate.yaml", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"},
		},
		{
			name:        "bad duration panics",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
