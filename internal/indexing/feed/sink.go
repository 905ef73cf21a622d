package feed

import (
	"context"
	"log/slog"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// LogSink writes alerts to a structured logger.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Emit(ctx context.Context, alert domain.Alert) error {
	level := slog.LevelInfo
	switch alert.Severity {
	case domain.SeverityHigh:
		level = slog.LevelWarn
	case domain.SeverityLow:
		level = slog.LevelDebug
	}
	if alert.Kind == domain.AlertKindError {
		level = slog.LevelError
	}

	attrs := []any{
		"id", alert.ID,
		"kind", alert.Kind,
		"severity", alert.Severity,
		"from", alert.From,
		"to", alert.To,
	}
	if alert.ValueNative != "" {
		attrs = append(attrs, "value", alert.ValueNative)
	}
	if alert.BlockNumber != 0 {
		attrs = append(attrs, "block", alert.BlockNumber)
	}
	s.log.Log(ctx, level, alert.Message, attrs...)
	return nil
}
