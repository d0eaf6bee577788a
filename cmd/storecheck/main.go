package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

// newLogger builds the process logger. format "console" gives the development
// encoder, anything else JSON.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func newApp(logger *zap.Logger) *cli.App {
	return &cli.App{
		Name:    "storecheck",
		Usage:   "End-to-end checks for the Steam storefront",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(logger),
			FetchCommand(logger),
			TotalCommand(logger),
			RunCommand(logger),
		},
	}
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	logger, err := newLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	if err := newApp(logger).Run(os.Args); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
