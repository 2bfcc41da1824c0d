package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aoldacloud/console/internal/adapter/outbound/heimdall"
	"github.com/aoldacloud/console/internal/domain/auth"
	"github.com/aoldacloud/console/internal/domain/session"
	"github.com/aoldacloud/console/internal/service"
)

// envelope is the uniform response body every endpoint returns. The
// timestamp is ISO-8601 in UTC.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Error     string `json:"error,omitempty"`
	TimeStamp string `json:"timeStamp"`
}

// writeJSON writes a success envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Success:   true,
		Data:      data,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// writeError writes an error envelope with a caller-safe message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Error:     message,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		slog.Default().Error("failed to encode error response", "error", err)
	}
}

// writeServiceError maps a service error to an HTTP status and envelope.
// Upstream detail stays in the logs; the client sees a generic message per
// error class.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var statusErr *heimdall.StatusError

	switch {
	case errors.Is(err, auth.ErrNoPrincipal):
		writeError(w, http.StatusUnauthorized, "no authentication token present")
	case errors.Is(err, auth.ErrAuthentication):
		writeError(w, http.StatusUnauthorized, "authentication failed")
	case errors.Is(err, auth.ErrScoping):
		writeError(w, http.StatusForbidden, "requested scope is not accessible")
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, "invalid authentication token")
	case errors.Is(err, service.ErrNotOwned):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &statusErr):
		logger.Warn("upstream proxy manager error", "status", statusErr.StatusCode)
		writeError(w, http.StatusBadGateway, "proxy manager request failed")
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
