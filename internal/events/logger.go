package events

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

// slogAdapter routes watermill's internal logging through the application logger.
type slogAdapter struct {
	logger *slog.Logger
}

func NewLoggerAdapter(logger *slog.Logger) watermill.LoggerAdapter {
	return &slogAdapter{logger: logger}
}

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(attrs(fields), "error", err)...)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, attrs(fields)...)
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

// Trace is mapped below Debug.
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Log(context.Background(), slog.LevelDebug-4, msg, attrs(fields)...)
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{logger: a.logger.With(attrs(fields)...)}
}

func attrs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
