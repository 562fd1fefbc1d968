package jira

import (
	"io"
	"log/slog"
)

// FetchEvent records metadata about one issue retrieval.
type FetchEvent struct {
	Key       string
	Source    string // "live", "cache" or "search"
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// FetchObserver receives fetch events for logging and metrics.
type FetchObserver interface {
	OnFetch(event FetchEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnFetch(FetchEvent) {}

// LogObserver writes fetch events to an io.Writer as structured log lines.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer logging to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnFetch(event FetchEvent) {
	attrs := []any{
		"key", event.Key,
		"source", event.Source,
		"latency_ms", event.LatencyMs,
		"success", event.Success,
	}
	if event.ErrorCode != "" {
		attrs = append(attrs, "error", event.ErrorCode)
	}
	o.logger.Info("issue_fetch", attrs...)
}
