package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
	"github.com/Jomkit/KitchenSync/pkg/logger"
	"github.com/Jomkit/KitchenSync/pkg/validator"
)

// ErrorBody is the flat JSON error envelope returned by every API path:
// {"error": "...", "code": "...", "request_id": "..."}. Errors carries the
// per-ingredient detail rows for the insufficient-ingredients case only.
type ErrorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, the error is logged but headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorBody writes the flat error envelope with the given status, code,
// and message, stamping the request ID from context.
func WriteErrorBody(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{
		Error:     message,
		Code:      code,
		RequestID: logger.RequestIDFromContext(r.Context()),
	})
}

// WriteError writes a standardized error response based on the error type.
// AppErrors map to their own code and status; anything else is treated as an
// internal error, logged, and surfaced as an opaque 500. It prefers the
// request-scoped logger from context (set by the RequestLogger middleware)
// over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "internal error",
				slog.String("error", appErr.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		WriteErrorBody(w, r, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		WriteErrorBody(w, r, status, "INTERNAL_SERVER_ERROR", "an internal error occurred")
		return
	}

	WriteErrorBody(w, r, status, codeForStatus(status), err.Error())
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// WriteValidationError writes a 400 VALIDATION envelope. Field-level failures
// from the validator package are folded into a single readable message.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	message := err.Error()

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		parts := make([]string, 0, len(valErr.Fields()))
		for field, msg := range valErr.Fields() {
			parts = append(parts, field+" "+msg)
		}
		message = strings.Join(parts, "; ")
	}

	WriteErrorBody(w, r, http.StatusBadRequest, "VALIDATION", message)
}

// ParseID validates that the given path parameter is a positive integer id.
// If invalid, it writes a 404 (an id that cannot exist names no resource)
// and returns false, signaling the caller to return early.
func ParseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id < 1 {
		WriteErrorBody(w, r, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return 0, false
	}
	return id, true
}
