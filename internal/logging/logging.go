// Package logging holds lector's process-wide slog logger.
//
// The handler is swapped by Configure; the level lives in a shared LevelVar,
// so SetLevel takes effect on every logger already derived with For.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

type Options struct {
	Level string
	JSON  bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	level slog.LevelVar
	root  atomic.Pointer[slog.Logger]
)

func init() {
	root.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level})))
}

// Configure replaces the handler and sets the level.
func Configure(opts Options) {
	level.Set(parseLevel(opts.Level))
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: &level}
	var h slog.Handler = slog.NewTextHandler(out, cfg)
	if opts.JSON {
		h = slog.NewJSONHandler(out, cfg)
	}
	root.Store(slog.New(h))
}

// SetLevel changes the level without touching the handler.
func SetLevel(s string) { level.Set(parseLevel(s)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func L() *slog.Logger { return root.Load() }

// For returns the current logger tagged with component. Loggers from For
// keep the handler that was active when they were made.
func For(component string) *slog.Logger {
	return L().With("component", component)
}

// InitFromEnv reads LECTOR_LOG_LEVEL and LECTOR_LOG_JSON.
func InitFromEnv() {
	json, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("LECTOR_LOG_JSON")))
	Configure(Options{Level: os.Getenv("LECTOR_LOG_LEVEL"), JSON: json})
}
