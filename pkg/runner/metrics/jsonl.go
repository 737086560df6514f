package metrics

import (
	"log/slog"
	"os"
	"sync"

	ljson "github.com/lexlapax/go-llms/pkg/util/json"
)

// JSONLLogger appends one JSON object per line to a file (spec.md §4.9,
// §6 "Metrics output"). Writes are append-only and serialized by an
// internal mutex; a write failure is logged and otherwise swallowed so one
// bad sink never stops a run.
type JSONLLogger struct {
	mu   sync.Mutex
	file *os.File
	log  *slog.Logger
}

// NewJSONLLogger opens (creating if necessary) path for append and returns
// a JSONLLogger writing to it. The caller owns closing it via Close.
func NewJSONLLogger(path string, log *slog.Logger) (*JSONLLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &JSONLLogger{file: f, log: log}, nil
}

// Emit marshals event with the runner's jsoniter codec and appends it as
// one UTF-8 JSON line.
func (l *JSONLLogger) Emit(event Event) {
	data, err := ljson.Marshal(event)
	if err != nil {
		l.log.Error("metrics: failed to marshal event", "event", event.EventKind, "error", err)
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(data); err != nil {
		l.log.Error("metrics: failed to append event", "event", event.EventKind, "error", err)
	}
}

// Close closes the underlying file.
func (l *JSONLLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
