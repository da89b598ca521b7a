package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// shelfHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
//
// Keys of attrs added under a group are prefixed with "<group>.".
type shelfHandler struct {
	w     io.Writer
	opID  string
	level slog.Level
	group string
	attrs []slog.Attr
}

func (h *shelfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *shelfHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, level, h.opID, r.Message)
	if err != nil {
		return err
	}

	for _, a := range h.attrs {
		writeAttr(h.w, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(h.w, h.prefix(), a)
		return true
	})

	_, err = fmt.Fprintln(h.w)
	return err
}

// writeAttr prints a as "\t<prefix><key>=<value>", expanding group values
// into one field per member under "<prefix><key>.".
func writeAttr(w io.Writer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		fmt.Fprintf(w, "\t%s%s=%v", prefix, a.Key, a.Value)
		return
	}
	inner := prefix
	if a.Key != "" {
		inner = prefix + a.Key + "."
	}
	for _, member := range a.Value.Group() {
		writeAttr(w, inner, member)
	}
}

func (h *shelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, slog.Attr{Key: h.prefix() + a.Key, Value: a.Value})
	}
	h2 := *h
	h2.attrs = merged
	return &h2
}

func (h *shelfHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.prefix() + name
	return &h2
}

func (h *shelfHandler) prefix() string {
	if h.group == "" {
		return ""
	}
	return h.group + "."
}

// teeHandler sends each record to every handler that accepts its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// parseLevel maps a config log level ("debug", "info", "warn", "error") to
// a slog.Level. Empty means info.
func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger creates a structured logger that writes records at levelName and
// above to logDir/shelf.log. Warnings and errors are also echoed to stderr so
// they show up next to command output.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir, opID, levelName string) (*slog.Logger, *os.File, error) {
	return newLoggerTo(logDir, opID, levelName, os.Stderr)
}

func newLoggerTo(logDir, opID, levelName string, console io.Writer) (*slog.Logger, *os.File, error) {
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "shelf.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := teeHandler{
		&shelfHandler{w: f, opID: opID, level: level},
		&shelfHandler{w: console, opID: opID, level: max(level, slog.LevelWarn)},
	}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the shelf.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
