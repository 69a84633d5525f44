package dashboard

import (
	"context"

	"golang.org/x/exp/slog"
)

// Tracer receives the diagnostic lines emitted by delete and submit.
type Tracer interface {
	Trace(msg string, attrs ...slog.Attr)
}

// TraceFunc adapts a function to Tracer.
type TraceFunc func(msg string, attrs ...slog.Attr)

func (f TraceFunc) Trace(msg string, attrs ...slog.Attr) { f(msg, attrs...) }

// SlogTracer writes traces as INFO records.
type SlogTracer struct {
	Logger *slog.Logger
}

func (t SlogTracer) Trace(msg string, attrs ...slog.Attr) {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

type nopTracer struct{}

func (nopTracer) Trace(string, ...slog.Attr) {}
