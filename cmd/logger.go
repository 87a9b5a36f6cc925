package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
)

// multiHandler fans a log record out to every wrapped handler, used to
// keep human-readable stdout logging alongside the OTel log pipeline
// without picking one over the other.
type multiHandler struct {
	handlers []slog.Handler
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return multiHandler{handlers: next}
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return multiHandler{handlers: next}
}

// ProvideLogger builds the process-wide structured logger. Referenced,
// but never retrieved with the pack, from the teacher's own fx.go; this
// is a from-scratch slog.Logger fanning every record out to stdout JSON
// and the OTel log bridge.
func ProvideLogger(logProvider log.LoggerProvider) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	otelHandler := otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(logProvider))
	return slog.New(multiHandler{handlers: []slog.Handler{stdout, otelHandler}})
}

// ProvideWatermillLogger adapts the process logger for watermill's router
// and pub/sub implementations, matching the teacher's amqp/module.go use
// of watermill.NewSlogLogger.
func ProvideWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logger)
}
