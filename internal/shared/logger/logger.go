package logger

import (
	"io"
	"log/slog"
	"os"

	"celestial-server/internal/shared/config"
)

func Init() {
	if config.GlobalConfig == nil {
		panic("config must be initialized before logger")
	}

	cfg := config.GlobalConfig
	slog.SetDefault(New(os.Stdout, cfg.Logging, cfg.IsProduction()))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"environment", cfg.Server.Environment,
	)
}

// New builds a logger writing to w. Production always logs JSON.
func New(w io.Writer, logConfig config.LoggingConfig, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(logConfig.Level)}

	var handler slog.Handler
	if production || logConfig.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
