package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/simonbystrom/opsim/internal/config"
)

// setupLogging points the default slog logger at the configured log file.
// The terminal belongs to the dashboard, so nothing is logged to stderr.
func setupLogging(cfg config.Log) (func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() { f.Close() }, nil
}

func logStart(seed uint64, cfg config.Config) {
	slog.Info("opsim starting",
		"seed", seed,
		"tick_interval", cfg.Engine.TickInterval.Duration,
		"pool_capacity", cfg.Engine.PoolCapacity,
		"model", cfg.Generation.Model,
		"bedrock", cfg.Generation.UseBedrock,
	)
}
