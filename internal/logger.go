package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process-wide structured logger. Production gets
// JSON for the log pipeline; everything else gets human-readable text.
// The service name tags every record so the API and worker processes can
// share one log stream.
func NewLogger(w io.Writer, service, env, level string) *slog.Logger {
	lvl := new(slog.LevelVar) // info by default
	switch level {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	case "", "info":
	default:
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	}

	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	return slog.New(h).With(slog.String("service", service))
}
