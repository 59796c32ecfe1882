// Command pipeline runs the referral audit batch: it ingests the raw CSV
// exports, enriches and classifies every referral, and writes the final
// report CSV.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/FACorreiaa/referral-audit/internal/domain/pipeline"
	"github.com/FACorreiaa/referral-audit/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	svc := pipeline.NewService(cfg, logger)

	if _, err := svc.Run(context.Background()); err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
