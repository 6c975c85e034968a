package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the service logger. format is "json" or "text"; unknown
// levels fall back to info.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(WrapSlogHandler(h))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

type requestIDKey struct{}

// WithRequestID stores the request id for log records emitted with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

type requestAwareHandler struct {
	next slog.Handler
}

// WrapSlogHandler adds the request id to records logged with a request context.
func WrapSlogHandler(next slog.Handler) slog.Handler {
	if next == nil {
		next = slog.NewTextHandler(io.Discard, nil)
	}
	return &requestAwareHandler{next: next}
}

func (h *requestAwareHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *requestAwareHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := RequestIDFromContext(ctx); ok {
		record.AddAttrs(slog.String("request_id", id))
	}
	return h.next.Handle(ctx, record)
}

func (h *requestAwareHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestAwareHandler{next: h.next.WithAttrs(attrs)}
}

func (h *requestAwareHandler) WithGroup(name string) slog.Handler {
	return &requestAwareHandler{next: h.next.WithGroup(name)}
}
