package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
	"github.com/Jomkit/KitchenSync/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSON_EncodesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"key": "value"})

	var out map[string]string
	err := json.NewDecoder(rec.Body).Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "value", out["key"])
}

func TestWriteJSON_StatusCodes(t *testing.T) {
	codes := []int{http.StatusOK, http.StatusCreated, http.StatusNotFound, http.StatusTeapot}
	for _, code := range codes {
		rec := httptest.NewRecorder()
		WriteJSON(rec, code, struct{}{})
		assert.Equal(t, code, rec.Code)
	}
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.NotFound("Reservation not found"), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Reservation not found", body.Error)
}

func TestWriteError_Conflict(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.Conflict("Reservation is committed"), testLogger())

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, "Reservation is committed", body.Error)
}

func TestWriteError_SentinelNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestWriteError_SentinelValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.ErrValidation, testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestWriteError_UnknownError_Returns500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, fmt.Errorf("something unexpected"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
	// Underlying cause must not leak to the client.
	assert.NotContains(t, body.Error, "something unexpected")
}

func TestWriteError_AppErrorInternal_MasksCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.Internal(fmt.Errorf("on_hand would go negative")), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
	assert.NotContains(t, body.Error, "on_hand")
}

// --- WriteValidationError ---

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	WriteValidationError(rec, req, fmt.Errorf("items must be a non-empty list"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "items must be a non-empty list", body.Error)
}

// --- Envelope shape ---

func TestErrorBody_OmitsEmptyOptionalFields(t *testing.T) {
	data, err := json.Marshal(ErrorBody{Error: "msg", Code: "VALIDATION"})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	_, hasRequestID := raw["request_id"]
	assert.False(t, hasRequestID, "request_id should be omitted when empty")
	_, hasErrors := raw["errors"]
	assert.False(t, hasErrors, "errors should be omitted when nil")
}

func TestErrorBody_CarriesErrorsList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusConflict, ErrorBody{
		Error: "Insufficient ingredients",
		Code:  "INSUFFICIENT_INGREDIENTS",
		Errors: []map[string]any{
			{"ingredient_name": "Lettuce", "required_qty": 1, "available_qty": 0},
		},
	})

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Contains(t, string(raw["errors"]), "Lettuce")
}

// --- ParseID ---

func TestParseID_Valid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	id, ok := ParseID(rec, req, "42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, http.StatusOK, rec.Code) // no response written
}

func TestParseID_Invalid_Returns404(t *testing.T) {
	for _, param := range []string{"", "abc", "-1", "0", "1.5"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		_, ok := ParseID(rec, req, param)
		assert.False(t, ok, "param %q should be rejected", param)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}

// --- Request ID stamping ---

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithRequestID(context.Background(), "req-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "req-123", body.RequestID)
}

func TestWriteError_NoRequestID_OmitsField(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	var raw map[string]json.RawMessage
	err := json.NewDecoder(rec.Body).Decode(&raw)
	require.NoError(t, err)
	_, hasRequestID := raw["request_id"]
	assert.False(t, hasRequestID, "request_id should be omitted when not in context")
}

func TestWriteError_AppError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithRequestID(context.Background(), "req-456")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.NotFound("Ingredient not found"), testLogger())

	var body ErrorBody
	err := json.NewDecoder(rec.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "req-456", body.RequestID)
}
