package loggy

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopLoggerIsSafeEverywhere(t *testing.T) {
	logger := NewNoopLogger()
	assert.NotNil(t, logger)
	assert.Same(t, logger, GetGlobalLogger())

	// None of these may panic, including through a nil receiver
	logger.Debug("debug", "k", "v")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", "err", assert.AnError)

	var nilLogger *Logger
	nilLogger.Info("nil receiver is a no-op")
	assert.Nil(t, nilLogger.With("k", "v"))
}

func TestWithCarriesAttributes(t *testing.T) {
	logger := NewNoopLogger()
	child := logger.With("repo", "dotfiles")
	assert.NotNil(t, child)
	assert.NotSame(t, logger, child)
	child.Info("scoped")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelInfo, cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.NotEmpty(t, cfg.Output)
}
