// Package debuglog is the application log. It is off unless configured,
// since the terminal belongs to the reader while it runs.
package debuglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

var (
	mu           sync.Mutex
	currentLevel = LevelOff
	level        = new(slog.LevelVar)
	handlers     []slog.Handler
	logger       *slog.Logger
	logFile      *os.File
)

// DefaultPath is where the log goes when Setup gets no path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skim", "skim.log")
}

// Setup configures the logging system with the specified level and optional file path.
// If filePath is empty, defaults to DefaultPath.
func Setup(lvl LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = lvl
	level.Set(lvl.slogLevel())

	if lvl == LevelOff {
		return nil
	}

	logPath := DefaultPath()
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", logPath, err)
	}
	logFile = f

	handlers = []slog.Handler{
		slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
	}
	rebuildLocked()
	return nil
}

// Mirror copies every record to w as well, e.g. stderr for CLI commands
// run with --verbose. It has no effect while logging is off.
func Mirror(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if currentLevel == LevelOff {
		return
	}
	handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	rebuildLocked()
}

func rebuildLocked() {
	logger = slog.New(slogmulti.Fanout(handlers...)).With("app", "skim")
}

// SetLevel changes the current logging level
func SetLevel(lvl LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = lvl
	level.Set(lvl.slogLevel())
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	logger = nil
	handlers = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger returns the underlying slog logger, or a discarding one while
// logging is off.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

func current(lvl LogLevel) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil || lvl < currentLevel || currentLevel == LevelOff {
		return nil
	}
	return logger
}

func logf(lvl LogLevel, attrs []any, format string, args ...any) {
	l := current(lvl)
	if l == nil {
		return
	}
	l.Log(context.Background(), lvl.slogLevel(), fmt.Sprintf(format, args...), attrs...)
}

func Debugf(format string, args ...any) { logf(LevelDebug, nil, format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, nil, format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, nil, format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, nil, format, args...) }

// FieldLogger attaches key/value fields to every message.
type FieldLogger struct {
	attrs []any
}

// WithFields returns a logger that adds fields to each record. Keys are
// emitted in sorted order.
func WithFields(fields map[string]any) *FieldLogger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return &FieldLogger{attrs: attrs}
}

func (fl *FieldLogger) Debugf(format string, args ...any) { logf(LevelDebug, fl.attrs, format, args...) }
func (fl *FieldLogger) Infof(format string, args ...any)  { logf(LevelInfo, fl.attrs, format, args...) }
func (fl *FieldLogger) Warnf(format string, args ...any)  { logf(LevelWarn, fl.attrs, format, args...) }
func (fl *FieldLogger) Errorf(format string, args ...any) { logf(LevelError, fl.attrs, format, args...) }
