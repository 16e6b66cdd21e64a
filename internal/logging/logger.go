package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit. Defaults to Info.
	Level slog.Level

	// LogDir, when non-empty, enables JSON file logging alongside stderr.
	// Supports a leading "~" for the home directory.
	LogDir string

	// Service names the component, used in the log file name.
	Service string

	// Stderr overrides the default stderr writer (for tests).
	Stderr io.Writer
}

// Logger wraps slog.Logger with an optional file sink.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New builds a logger from the config. The error is non-nil only when file
// logging was requested and the log directory or file could not be created;
// the returned logger is still usable (stderr-only) in that case.
func New(cfg Config) (*Logger, error) {
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = io.Writer(os.Stderr)
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	handlers := []slog.Handler{slog.NewTextHandler(stderr, opts)}

	var file *os.File
	var fileErr error
	if cfg.LogDir != "" {
		dir, err := expandHome(cfg.LogDir)
		if err == nil {
			err = os.MkdirAll(dir, 0755)
		}
		if err != nil {
			fileErr = fmt.Errorf("creating log directory: %w", err)
		} else {
			service := cfg.Service
			if service == "" {
				service = "hotforge"
			}
			name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
			file, err = os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				fileErr = fmt.Errorf("opening log file: %w", err)
			} else {
				handlers = append(handlers, slog.NewJSONHandler(file, opts))
			}
		}
	}

	return &Logger{
		Logger: slog.New(multiHandler(handlers)),
		file:   file,
	}, fileErr
}

// Close flushes and closes the file sink if one is open.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// expandHome resolves a leading "~" to the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// multiHandler fans a record out to every handler. A single handler is
// returned unwrapped.
func multiHandler(handlers []slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return fanoutHandler(handlers)
}

type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sub := range h {
		if sub.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, sub := range h {
		if sub.Enabled(ctx, r.Level) {
			if err := sub.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, sub := range h {
		out[i] = sub.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, sub := range h {
		out[i] = sub.WithGroup(name)
	}
	return out
}
