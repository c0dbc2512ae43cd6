package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// newLogger builds the logger described by cfg, writing to stderr.
func newLogger(cfg LogConfig) (*log.Logger, error) {
	return newLoggerTo(os.Stderr, cfg)
}

func newLoggerTo(w io.Writer, cfg LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger := log.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	switch cfg.Format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q, want text or json", cfg.Format)
	}
	return logger, nil
}
