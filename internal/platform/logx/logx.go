// Package logx is the structured logger used across sleuth. It keeps a small
// key-value interface and delegates formatting to log/slog.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type slogLogger struct {
	lvl *slog.LevelVar // shared with every logger derived through With
	lg  *slog.Logger
}

// New builds a text logger on stderr. SLEUTH_LOG_LEVEL and SLEUTH_LOG_FORMAT
// override the defaults.
func New() Logger {
	return NewWithWriter(os.Stderr,
		parseFormat(os.Getenv("SLEUTH_LOG_FORMAT")),
		parseLevel(os.Getenv("SLEUTH_LOG_LEVEL")))
}

// NewWithLevel creates a stderr text logger with a specific log level.
func NewWithLevel(lvl Level) Logger {
	return NewWithWriter(os.Stderr, FormatText, lvl)
}

// NewSilent creates a logger that only outputs errors.
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

// NewWithWriter creates a logger writing to w in the given format.
func NewWithWriter(w io.Writer, format Format, lvl Level) Logger {
	lv := new(slog.LevelVar)
	lv.Set(toSlog(lvl))

	opts := &slog.HandlerOptions{Level: lv}
	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		opts.ReplaceAttr = compactText
		h = slog.NewTextHandler(w, opts)
	}
	return &slogLogger{lvl: lv, lg: slog.New(h)}
}

// FromConfig builds a stderr logger from textual level and format settings.
func FromConfig(level, format string) Logger {
	return NewWithWriter(os.Stderr, parseFormat(format), parseLevel(level))
}

func (s *slogLogger) With(kv ...any) Logger {
	return &slogLogger{lvl: s.lvl, lg: s.lg.With(kv...)}
}

func (s *slogLogger) SetLevel(lvl Level) { s.lvl.Set(toSlog(lvl)) }

func (s *slogLogger) Debug(msg string, kv ...any) { s.lg.Debug(msg, kv...) }
func (s *slogLogger) Info(msg string, kv ...any)  { s.lg.Info(msg, kv...) }
func (s *slogLogger) Warn(msg string, kv ...any)  { s.lg.Warn(msg, kv...) }
func (s *slogLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	s.lg.Log(context.Background(), slog.LevelError, "", append([]any{"error", err.Error()}, kv...)...)
}

// compactText shortens the text handler output to "15:04:05 INF msg k=v".
func compactText(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			return slog.String(slog.TimeKey, t.Format("15:04:05"))
		}
	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelTag(l))
		}
	case slog.MessageKey:
		if a.Value.String() == "" {
			return slog.Attr{}
		}
	}
	return a
}

func levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INF"
	case l < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}

func toSlog(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseLevel exposes level parsing for config validation.
func ParseLevel(s string) Level { return parseLevel(s) }

func parseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
