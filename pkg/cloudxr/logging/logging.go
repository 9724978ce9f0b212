package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redactedPlaceholder = "[redacted]"

// Logger is the logging surface used by the bridge. Arguments after msg are
// alternating key/value pairs or slog.Attr values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil binds to
// slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// NewZap returns a Logger backed by zap. Passing nil yields a no-op logger.
func NewZap(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{sugar: logger.Sugar()}
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debug(_ context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, zapArgs(args)...)
}

func (l *zapLogger) Info(_ context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, zapArgs(args)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, zapArgs(args)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, zapArgs(args)...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(zapArgs(args)...)}
}

// zapArgs flattens slog.Attr values into key/value pairs so callers can mix
// Redacted attributes with plain pairs regardless of backend.
func zapArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		if attr, ok := a.(slog.Attr); ok {
			out = append(out, attr.Key, attr.Value.Any())
			continue
		}
		out = append(out, a)
	}
	return out
}

// BuildZap builds a zap logger at level ("debug", "info", ...). development
// selects the console encoder and stack traces on warnings.
func BuildZap(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewZap(nil)
}

// Redacted marks attributes whose value was intentionally left out of the log.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string that represents a redacted value.
func Placeholder() string {
	return redactedPlaceholder
}
