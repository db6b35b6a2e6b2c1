package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Init initializes the global slog logger.
// format "text" renders through charmbracelet/log for terminal runs; any
// other value yields JSON.
func Init(writer io.Writer, level slog.Level, format string) {
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = charmlog.NewWithOptions(writer, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				switch a.Key {
				case slog.TimeKey:
					a.Key = "timestamp"
				case slog.LevelKey:
					a.Key = "level"
				case slog.MessageKey:
					a.Key = "message"
				}
				return a
			},
		})
	}
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a config string to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
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
