package slogx

import (
	"context"
	"log/slog"
	"slices"
)

type ctxAttrsKey struct{}

// ContextWith returns a context whose log records carry attrs, in addition to
// any attrs already attached to ctx.
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFromContext(ctx)
	return context.WithValue(ctx, ctxAttrsKey{}, append(slices.Clip(prev), attrs...))
}

func attrsFromContext(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	return attrs
}

// ContextHandler adds the attrs stored by ContextWith to every record.
func ContextHandler(next slog.Handler) slog.Handler {
	return contextHandler{next: next}
}

type contextHandler struct {
	next slog.Handler
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFromContext(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{next: h.next.WithGroup(name)}
}
