// SPDX-License-Identifier: MIT

// Package logging builds zap loggers for the rollrate binary and adapts them
// to clean.Sink so cleaning events are logged as structured records.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/rollrate/clean"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New returns a JSON production logger writing to stderr at level
// ("debug", "info", "warn", "error"; empty means DefaultLevel).
func New(level string) (*zap.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}

	return logger, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.Logger { return zap.NewNop() }

// LogSink logs cleaning events at info level.
type LogSink struct {
	logger *zap.Logger
}

var _ clean.Sink = (*LogSink)(nil)

// NewLogSink wraps logger; nil means a no-op logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Emit writes one record per event. zap loggers are safe for concurrent use.
func (s *LogSink) Emit(e clean.Event) {
	switch e.Kind {
	case clean.EventRebin:
		s.logger.Info("bucket re-binned",
			zap.String("scope", e.Scope),
			zap.Int("bucket", e.Bucket),
			zap.Int("target", e.Target),
			zap.Float64("moved", e.Count),
		)
	case clean.EventDrop:
		s.logger.Info("bucket dropped",
			zap.String("scope", e.Scope),
			zap.Int("bucket", e.Bucket),
			zap.Float64("total", e.Count),
		)
	default:
		s.logger.Warn("unknown cleaning event", zap.Stringer("event", e))
	}
}
