package app

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/five82/librarian/internal/config"
)

const (
	logMaxSizeMB  = 5
	logMaxBackups = 3
	logMaxAgeDays = 14
)

// NewLogger creates a text *slog.Logger writing to the rotating file at
// cfg.LogPath() and sets it as the default logger. The terminal belongs to
// the UI, so nothing is written to stderr. The returned closer flushes and
// closes the file.
func NewLogger(cfg config.Config) (*slog.Logger, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}
	logger := newLogger(file, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger, file
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
