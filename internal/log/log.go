// Package log configures the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dotse/slug"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Debug, Info, Warn, Error:
		return l, nil
	case "":
		return Info, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// New builds a logger writing human-readable lines to w and, when logPath is
// set, to that file as well. The returned closer releases the file.
func New(w io.Writer, level Level, logPath string) (*slog.Logger, func(), error) {
	closer := func() {}
	opts := slug.HandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			Level: ToSlogLevel(level),
		},
	}

	handlers := []slog.Handler{slug.NewHandler(opts, w)}
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() {
			if errClose := logFile.Close(); errClose != nil {
				fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", errClose)
			}
		}
		handlers = append(handlers, slog.NewJSONHandler(logFile, &opts.HandlerOptions))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(w io.Writer, level Level, logPath string) (func(), error) {
	logger, closer, err := New(w, level, logPath)
	if err != nil {
		return closer, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("reason", err)
}
