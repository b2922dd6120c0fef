package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ssargent/twinkeys/pkg/logging"
)

// slogFormatter routes chi's request logging through the server logger
type slogFormatter struct {
	logger *logging.Logger
}

func (f *slogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &slogEntry{
		logger: f.logger.With(
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		),
	}
}

type slogEntry struct {
	logger *logging.Logger
}

func (e *slogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.logger.Info("request",
		"status", status,
		"bytes", bytes,
		"duration_ms", float64(elapsed.Microseconds())/1000,
	)
}

func (e *slogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("panic serving request", "panic", v, "stack", string(stack))
}
