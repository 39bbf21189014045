// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/anvil/internal/core/ports"
)

const (
	mainIndent  = "       "
	causeIndent = "      "
	causeArrow  = "    → "
)

// messager describes an error that can report its own message without the chain.
// zerr.Error satisfies it.
type messager interface {
	Message() string
}

// metadataCarrier describes an error that exposes structured key-value context.
type metadataCarrier interface {
	Metadata() map[string]any
}

// ErrorEntry is a single link of an error chain as presented to the user.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination, keeping the current format.
// A nil writer selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// rebuild replaces the slog handler. Callers must hold mu.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = NewPrettyHandler(w, opts)
	}
	l.logger = slog.New(handler)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the chain of zerr errors. A standard error ends the
// walk with its full Error() text since its message cannot be separated from its causes.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if mc, ok := current.(metadataCarrier); ok {
			entry.Metadata = mc.Metadata()
		}

		// zerr.With on a plain error adds a link with no message of its own.
		if entry.Message != "" || len(entry.Metadata) > 0 {
			entries = append(entries, entry)
		}
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as a headline followed by an indented cause list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		prefix, indent := "Error: ", mainIndent
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			prefix, indent = causeArrow, causeIndent
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
