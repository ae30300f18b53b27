// Package notify provides notification sinks for user-facing messages.
package notify

import (
	"context"

	"cartflow/pkg/logger"
)

// Log forwards notifications to the structured logger. The storefront
// additionally receives the message in the operation response; this sink
// keeps a server-side record of every surfaced message.
type Log struct {
	log *logger.Logger
}

// NewLog creates a logger-backed sink.
func NewLog(log *logger.Logger) *Log {
	return &Log{log: log}
}

// Notify records the message at the given severity.
func (l *Log) Notify(ctx context.Context, level, message string) {
	switch level {
	case "error":
		l.log.Error(ctx, "notification", "message", message)
	case "warn":
		l.log.Warn(ctx, "notification", "message", message)
	default:
		l.log.Info(ctx, "notification", "message", message)
	}
}
