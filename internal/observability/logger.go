package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// redactedKeys never reach the log output, whatever the caller passes.
// Symptoms and prompts are health data.
var redactedKeys = map[string]bool{
	"password":        true,
	"password_hash":   true,
	"api_key":         true,
	"authorization":   true,
	"symptoms":        true,
	"prompt":          true,
	"additional_info": true,
}

func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	})

	return slog.New(NewTraceHandler(handler)).With("service", ServiceName, "env", env)
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if redactedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, "[redacted]")
	}
	return a
}
