package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/shunt/internal/server"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	logLevel := flag.String("log-level", "", "log level (overrides config: trace, debug, info, warn, error)")
	flag.Parse()

	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("service", "shuntd").Logger()
	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	// Flags given explicitly win over the file and environment.
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		boot.Fatal().Err(err).Msg("invalid config")
	}
	logger := boot.Level(cfg.Level())
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// run serves until the server fails. The tracer is flushed before it returns.
func run(cfg server.Config, logger zerolog.Logger) error {
	logger.Info().Str("version", version).Str("commit", commit).Msg("starting")

	shutdown, err := server.InitTracer(context.Background(), "shuntd", version)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	return server.NewServer(cfg, logger).ListenAndServe()
}
