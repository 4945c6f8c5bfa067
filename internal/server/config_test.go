package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shuntd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
addr: 127.0.0.1:9090
log_level: debug
max_length: 256
read_timeout: 5s
idle_timeout: 1m30s
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 256, cfg.MaxLength)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
}

func TestLoadConfigEnv(t *testing.T) {
	path := writeConfig(t, "addr: \":7000\"\nmax_length: 10\n")
	t.Setenv("SHUNT_ADDR", ":7001")
	t.Setenv("SHUNT_LOG_LEVEL", "warn")
	t.Setenv("SHUNT_MAX_LENGTH", "0")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.Addr)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
	// "0" from the environment overrides the file.
	assert.Equal(t, 0, cfg.MaxLength)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing-file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("bad-yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "addr: [unterminated\n"))
		assert.ErrorContains(t, err, "parsing config")
	})
	t.Run("bad-env-length", func(t *testing.T) {
		t.Setenv("SHUNT_MAX_LENGTH", "lots")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "SHUNT_MAX_LENGTH")
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "log_level: loud\n"))
		assert.ErrorContains(t, err, "log_level")
	})
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		err  string
	}{
		{"ok", func(*Config) {}, ""},
		{"no-addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"bad-level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"negative-length", func(c *Config) { c.MaxLength = -1 }, "max_length"},
		{"cert-only", func(c *Config) { c.TLSCert = "cert.pem" }, "tls_cert"},
		{"key-only", func(c *Config) { c.TLSKey = "key.pem" }, "tls_key"},
		{"tls", func(c *Config) { c.TLSCert, c.TLSKey = "cert.pem", "key.pem" }, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mod(&cfg)
			err := cfg.Validate()
			if c.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, c.err)
		})
	}
}

func TestConfigLevelFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = ""
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	cfg.LogLevel = "nonsense"
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	cfg.LogLevel = "trace"
	assert.Equal(t, zerolog.TraceLevel, cfg.Level())
}
