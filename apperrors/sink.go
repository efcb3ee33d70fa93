package apperrors

import (
	"context"
	"fmt"

	"freight-admin/logger"
)

// ErrorSink receives failures of side effects that must not reach the caller.
type ErrorSink interface {
	Report(ctx context.Context, op string, err error)
}

// LogSink reports to the application log.
type LogSink struct{}

func (LogSink) Report(_ context.Context, op string, err error) {
	logger.Error(fmt.Sprintf("side effect %s failed", op), err)
}

// SinkFunc adapts a function to ErrorSink.
type SinkFunc func(ctx context.Context, op string, err error)

func (f SinkFunc) Report(ctx context.Context, op string, err error) { f(ctx, op, err) }
