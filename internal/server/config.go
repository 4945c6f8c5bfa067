package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds server configuration.
type Config struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	MaxLength    int           `yaml:"max_length"` // runes per expression, 0 for no limit
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	TLSCert      string        `yaml:"tls_cert"`
	TLSKey       string        `yaml:"tls_key"`
}

// DefaultConfig returns the configuration used for anything a config file and
// the environment leave unset.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		LogLevel:     "info",
		MaxLength:    4096,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// LoadConfig reads a YAML config file over the defaults, then applies
// SHUNT_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if v := os.Getenv("SHUNT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SHUNT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SHUNT_MAX_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("SHUNT_MAX_LENGTH: %w", err)
		}
		cfg.MaxLength = n
	}
	if v := os.Getenv("SHUNT_TLS_CERT"); v != "" {
		cfg.TLSCert = v
	}
	if v := os.Getenv("SHUNT_TLS_KEY"); v != "" {
		cfg.TLSKey = v
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("max_length must not be negative, got %d", c.MaxLength)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("tls_cert and tls_key must be set together")
	}
	return nil
}

// Level returns the configured log level, or info if it is unset or invalid.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
