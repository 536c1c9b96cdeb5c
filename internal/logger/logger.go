// internal/logger/logger.go
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string // debug | info | warn | error
	Format     string // text | json
	File       string // пусто - stderr
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup настраивает slog по умолчанию и перенаправляет стандартный log в тот же writer
func Setup(opts Options) *slog.Logger {
	var w io.Writer = os.Stderr
	if strings.TrimSpace(opts.File) != "" {
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
	}

	l := New(w, opts.Level, opts.Format)
	slog.SetDefault(l)

	log.SetFlags(0)
	log.SetOutput(w)
	return l
}

func New(w io.Writer, level, format string) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
