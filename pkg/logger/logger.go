// Package logger provides a small leveled logger with console and optional
// file output. The engine logs skipped files at debug level through it; the
// CLI wires it from configuration.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	// LevelDebug for per-file diagnostics.
	LevelDebug Level = iota
	// LevelInfo for search lifecycle messages.
	LevelInfo
	// LevelWarn for recoverable problems.
	LevelWarn
	// LevelError for failures surfaced to the caller.
	LevelError
)

// String returns the level name used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, timestamped lines to a console writer and an
// optional file. Safe for concurrent use; loggers derived with WithPrefix
// share the parent's lock so their lines never interleave.
type Logger struct {
	mu      *sync.Mutex
	level   Level
	prefix  string
	console io.Writer
	file    io.WriteCloser
}

// Config describes a logger.
type Config struct {
	Level   Level
	Prefix  string
	Console io.Writer // nil = os.Stderr
	File    string    // path to a log file, empty = console only
}

// New creates a logger from cfg, creating the log file's directory when a
// file path is given.
func New(cfg Config) (*Logger, error) {
	l := &Logger{
		mu:      &sync.Mutex{},
		level:   cfg.Level,
		prefix:  cfg.Prefix,
		console: cfg.Console,
	}
	if l.console == nil {
		l.console = os.Stderr
	}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// WithPrefix returns a logger sharing outputs, level, and lock but with a
// different line prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		mu:      l.mu,
		level:   l.level,
		prefix:  prefix,
		console: l.console,
		file:    l.file,
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	line := fmt.Sprintf("%s%s [%s] %s\n",
		l.prefix,
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		fmt.Sprintf(format, args...))
	if l.console != nil {
		_, _ = io.WriteString(l.console, line)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, line)
	}
}

// Debug logs at debug level. A nil logger is silent.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
