package middleware

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"

	"github.com/dtroode/interview-assistant/internal/logger"
)

// Logging adapts the application logger to go-grpc-middleware interceptors.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Logger returns the slog-backed logging.Logger used by the interceptors.
func (l *Logging) Logger() logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.logger.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

func (l *Logging) options() []logging.Option {
	return []logging.Option{
		logging.WithLogOnEvents(logging.FinishCall),
	}
}

// UnaryInterceptor logs method, duration and status code of each unary call.
func (l *Logging) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(l.Logger(), l.options()...)
}

// StreamInterceptor logs each finished stream, such as health watches.
func (l *Logging) StreamInterceptor() grpc.StreamServerInterceptor {
	return logging.StreamServerInterceptor(l.Logger(), l.options()...)
}
