package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is the slog logger used by the HTTP middleware. Domain services and
// adapters log through zap (see NewZapLogger).
type Logger struct {
	*slog.Logger
}

// Config is shared by New and NewZapLogger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text (zap: console)
	Output io.Writer
}

// DefaultConfig logs info and above as JSON to stdout.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: os.Stdout}
}

var slogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// normalizeLevel lowercases level, maps "warning" to "warn" and defaults an
// empty level to "info".
func normalizeLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "":
		return "info"
	case "warning":
		return "warn"
	default:
		return l
	}
}

func isText(format string) bool {
	f := strings.ToLower(format)
	return f == "text" || f == "console"
}

// New builds a Logger. Unknown levels log at info.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	level, ok := slogLevels[normalizeLevel(cfg.Level)]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	if isText(cfg.Format) {
		return &Logger{Logger: slog.New(slog.NewTextHandler(out, opts))}
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(out, opts))}
}

// With returns a child Logger carrying args.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

type contextKey struct{}

// ContextWithLogger returns a copy of ctx carrying l.
func ContextWithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

var defaultLogger = sync.OnceValue(func() *Logger { return New(nil) })

// FromContext returns the logger stored in ctx, or a shared default.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger()
}
