package handler

// Response helpers shared by all handlers. Every error leaving the API
// has the same JSON shape regardless of status, so the workshop's demo
// clients can parse failures uniformly — the earlier incarnations of
// this server mixed plain-text and JSON errors and clients had to guess.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/sakif/workshop-tracker/internal/apperror"
)

// ErrorResponse is the standard error format returned by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// MessageResponse is the standard confirmation body for operations whose
// only output is "it worked".
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response. Headers and status code go out before
// the first body byte; changes after that are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends the unified
// error body. The mapping is the whole error-handling contract:
//
//	validation_error   400  bad or missing request field
//	upstream_rejected  400  a third-party service refused the input
//	not_found          404  entity absent
//	conflict           409  uniqueness invariant would be violated
//	upstream_error     500  backend or third-party failure
//	internal_error     500  anything unrecognised
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUpstreamRejected):
			status = http.StatusBadRequest
			errorType = "upstream_rejected"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError
			errorType = "upstream_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — a generic 500 with no internal detail leaked.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
