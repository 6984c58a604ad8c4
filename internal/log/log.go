package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"go-inventory-audit/internal/config"
)

// NewSlogLogger creates a slog logger for cfg and installs it as the default logger.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	log := slog.New(NewHandler(os.Stdout, cfg))
	slog.SetDefault(log)
	return log
}

// NewHandler returns a JSON handler or, for the text format, a colored tint handler.
func NewHandler(w io.Writer, cfg config.Log) slog.Handler {
	if cfg.Format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      cfg.Level,
		AddSource:  cfg.AddSource,
		TimeFormat: time.RFC3339,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
}

// Discard returns a logger that drops everything. Used by tests and commands that log elsewhere.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
