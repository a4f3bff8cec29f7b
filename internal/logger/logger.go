// Package logger provides structured logging for the whole service using
// the Uber zap library, plus an HTTP middleware that logs every request.
package logger

import (
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Log is the global SugaredLogger instance. It must be initialized via
// Init() before use; every package in the service logs through it.
var Log *zap.SugaredLogger

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size

	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// Init initializes the global logger with the given level
// ("debug", "info", "warn", "error", ...).
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes buffered log entries. Call it on shutdown.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}

	return nil
}

// WithLoggingHTTPMiddleware logs method, URI, status, duration and response
// size of every handled request.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	logFn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		data := &responseData{}
		lw := loggingResponseWriter{
			ResponseWriter: w,
			responseData:   data,
		}
		h.ServeHTTP(&lw, r)

		Log.Infoln(
			"uri", r.RequestURI,
			"method", r.Method,
			"status", data.status,
			"duration", time.Since(start),
			"size", data.size,
		)
	}

	return http.HandlerFunc(logFn)
}
