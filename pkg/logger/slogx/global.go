package slogx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

var dl atomic.Pointer[Logger]

func init() {
	SetDefault(New(ContextHandler(slog.NewTextHandler(os.Stderr, nil))))
}

// HandlerWrapper decorates the base handler built by InitGlobal.
type HandlerWrapper func(slog.Handler) slog.Handler

// InitGlobal replaces the default logger. Records go to w as JSON, or as
// colored text when pretty is set. Wrappers apply in order, innermost first.
func InitGlobal(w io.Writer, logLevel string, pretty bool, wrappers ...HandlerWrapper) error {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("init global logger: %w", err)
	}

	handler := baseHandler(w, level, pretty)
	for _, wrap := range wrappers {
		handler = wrap(handler)
	}

	SetDefault(New(handler))
	return nil
}

func baseHandler(w io.Writer, level slog.Level, pretty bool) slog.Handler {
	if !pretty {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
}

func SetDefault(l *Logger) {
	dl.Store(l)
}

func Default() *Logger {
	return dl.Load()
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Info(ctx, msg, attrs...)
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Debug(ctx, msg, attrs...)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Warn(ctx, msg, attrs...)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Error(ctx, msg, attrs...)
}

func Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	Default().Log(ctx, level, msg, attrs...)
}
