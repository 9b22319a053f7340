package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dpotapov/slogpfx"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// NamespaceKey is the attribute key used to prefix log lines with the
// subsystem that produced them.
const NamespaceKey = "namespace"

// DefaultHandler creates a new slog handler with the specified parameters.
func DefaultHandler(params Parameters) slog.Handler {
	return NewHandler(params.Type, params.Level)
}

// NewHandler creates a new slog handler based on the specified logger type
// and level, writing to stdout.
func NewHandler(loggerType LoggerType, level slog.Level) slog.Handler {
	return newHandler(loggerType, level, os.Stdout)
}

func newHandler(loggerType LoggerType, level slog.Level, w io.Writer) slog.Handler {
	switch loggerType {
	case LoggerText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerPretty:
		type fd interface{ Fd() uintptr }
		colorize := false
		if f, ok := w.(fd); ok {
			colorize = isatty.IsTerminal(f.Fd())
		}
		return buildPrettyHandler(w, level, colorize)
	case LoggerPrettyNoColor:
		return buildPrettyHandler(w, level, false)
	default:
		panic(fmt.Sprintf("unsupported logger type %d", loggerType))
	}
}

func buildPrettyHandler(w io.Writer, level slog.Level, colorize bool) slog.Handler {
	tintHandler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !colorize,
	})
	formatter := slogpfx.DefaultPrefixFormatter
	if colorize {
		formatter = slogpfx.ColorizePrefix(formatter)
	}
	return slogpfx.NewHandler(tintHandler, &slogpfx.HandlerOptions{
		PrefixKeys:      []string{NamespaceKey},
		PrefixFormatter: formatter,
	})
}

// SetupSimpleLogger initializes the default logger with the given parameters
// and returns it.
func SetupSimpleLogger(params Parameters) *slog.Logger {
	log := slog.New(DefaultHandler(params))
	slog.SetDefault(log)
	return log
}
