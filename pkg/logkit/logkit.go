// Package logkit sets up the structured logging used across the brewing layers.
package logkit

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// Level is a zerolog level name, e.g. "debug", "info", "warn".
	Level string
	// Pretty switches from JSON output to the human readable console format.
	Pretty bool
	// Out is the log destination. Defaults to stderr,
	// so command output on stdout stays machine readable.
	Out io.Writer
}

// New builds the root logger for the application.
func New(conf Config) zerolog.Logger {
	out := conf.Out
	if out == nil {
		out = os.Stderr
	}
	if conf.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ContextWith returns a context that carries the given logger.
func ContextWith(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger carried by the context,
// or a disabled logger when the context carries none.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// AccessLog returns a middleware that attaches the logger to the request context
// and emits one event per served request.
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r.WithContext(ContextWith(r.Context(), logger)))

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(started)).
				Str("remote", r.RemoteAddr).
				Msg("request served")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
