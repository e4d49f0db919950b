package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
	// Slog exposes the underlying logger for packages that take *slog.Logger.
	Slog() *slog.Logger
}

// Config is the log section of the collstress configuration.
type Config struct {
	Level  string    `koanf:"level" json:"level" yaml:"level"`
	Format string    `koanf:"format" json:"format" yaml:"format"`
	Output io.Writer `koanf:"-" json:"-" yaml:"-"`
}

// DefaultConfig logs JSON at info level to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

// level is shared by every logger built with New so SetLevel takes effect
// on a running workload.
var level = new(slog.LevelVar)

// New builds a logger from cfg. An unknown level or format is an error.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: expandCollectionError}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(out, opts)
	case "text", "console":
		h = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	level.Set(lvl)

	return &slogLogger{l: slog.New(contextHandler{h}), ctx: context.Background()}, nil
}

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
// The empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel changes the level of every logger built with New. Unknown
// levels are ignored and reported.
func SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(lvl)
	return nil
}

// GetLevel returns the current level in the form ParseLevel accepts.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// contextHandler stamps every record with the run ID and worker index
// carried by the context passed to the *Context logging methods.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RunIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("run_id", id))
	}
	if w := WorkerFromContext(ctx); w >= 0 {
		r.AddAttrs(slog.Int("worker", w))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// expandCollectionError turns a *collections.Error value into a group with
// its kind, site, code and param next to the message.
func expandCollectionError(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}
	var ce *collections.Error
	if !errors.As(err, &ce) {
		return a
	}
	attrs := []slog.Attr{
		slog.String("msg", err.Error()),
		slog.String("kind", ce.Kind.String()),
	}
	if ce.Site != "" {
		attrs = append(attrs, slog.String("site", ce.Site), slog.Int("code", ce.Code))
	}
	if ce.Param != "" {
		attrs = append(attrs, slog.String("param", ce.Param))
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(attrs...)}
}

type slogLogger struct {
	l   *slog.Logger
	ctx context.Context
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.DebugContext(s.ctx, msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.InfoContext(s.ctx, msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.WarnContext(s.ctx, msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.ErrorContext(s.ctx, msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...), ctx: s.ctx}
}

func (s *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{l: s.l, ctx: ctx}
}

func (s *slogLogger) Slog() *slog.Logger { return s.l }

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the logger returned by Default and also installs it
// as the slog default.
func SetDefault(l Logger) {
	sl, ok := l.(*slogLogger)
	if !ok {
		return
	}
	defaultLogger.Store(sl)
	slog.SetDefault(sl.l)
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}
