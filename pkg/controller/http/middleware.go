package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// LoggingMiddleware returns a middleware that logs HTTP requests
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// statusOf maps an error to its HTTP status. Validation failures are the
// client's fault, not-found stays not-found, everything else is a server
// fault.
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.TagValidation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound) || goerr.HasTag(err, types.TagNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError classifies an error, reports server faults to Sentry when
// configured, and writes the JSON error response. Server-fault details are
// not echoed to the client.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	logger := ctxlog.From(r.Context())

	switch status {
	case http.StatusNotFound:
		writeErrorMessage(w, "not found", status)
	case http.StatusInternalServerError:
		logger.Error("request failed", "error", err, "path", r.URL.Path)
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.CaptureException(err)
		}
		writeErrorMessage(w, "internal server error", status)
	default:
		logger.Warn("request rejected", "error", err, "path", r.URL.Path)
		writeError(w, err, status)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":  err.Error(),
		"reason": types.RejectReason(err),
	}); err != nil {
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	}); err != nil {
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}
