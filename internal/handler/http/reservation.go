package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/httputil"
	"github.com/Jomkit/KitchenSync/pkg/logger"
	"github.com/Jomkit/KitchenSync/pkg/middleware"
)

// ReservationHandler handles HTTP requests for the reservation lifecycle.
type ReservationHandler struct {
	service *service.ReservationService
	logger  *slog.Logger
}

// NewReservationHandler creates a new reservation HTTP handler.
func NewReservationHandler(svc *service.ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: svc,
		logger:  logger,
	}
}

// ReservationRequest is the JSON request body for creating or replacing a
// reservation's order lines.
type ReservationRequest struct {
	Items []domain.OrderLine `json:"items"`
}

// ReservationStatusResponse is the JSON response body for commit and
// release, which do not refresh the expiry.
type ReservationStatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID < 1 {
		httputil.WriteErrorBody(w, r, http.StatusUnauthorized, "UNAUTHORIZED",
			"Invalid access token subject")
		return
	}

	lines, ok := decodeOrderLines(w, r)
	if !ok {
		return
	}

	result, err := h.service.Create(r.Context(), userID, lines)
	if err != nil {
		writeReservationError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

// Update handles PATCH /reservations/{id}.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	lines, ok := decodeOrderLines(w, r)
	if !ok {
		return
	}

	result, err := h.service.Update(r.Context(), id, lines)
	if err != nil {
		writeReservationError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Commit handles POST /reservations/{id}/commit.
func (h *ReservationHandler) Commit(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.Commit(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ReservationStatusResponse{
		ID:     result.ID,
		Status: result.Status,
	})
}

// Release handles POST /reservations/{id}/release.
func (h *ReservationHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.Release(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ReservationStatusResponse{
		ID:     result.ID,
		Status: result.Status,
	})
}

func decodeOrderLines(w http.ResponseWriter, r *http.Request) ([]domain.OrderLine, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteErrorBody(w, r, http.StatusBadRequest, "VALIDATION",
			orderLinesDecodeMessage(err))
		return nil, false
	}
	return req.Items, true
}

// orderLinesDecodeMessage maps a JSON decode failure to the per-field
// message promised by the reservation API contract. Booleans are not
// integers, so a boolean qty lands here rather than in normalization.
func orderLinesDecodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch {
		case strings.HasSuffix(typeErr.Field, ".menu_item_id"):
			return "menu_item_id must be an integer"
		case strings.HasSuffix(typeErr.Field, ".qty"):
			return "qty must be an integer >= 1"
		case strings.HasSuffix(typeErr.Field, ".notes"):
			return "notes must be a string when provided"
		case typeErr.Field == "items" && typeErr.Type.Kind() == reflect.Struct:
			return "each item must be an object"
		}
	}
	return "items must be a non-empty list"
}

// writeReservationError renders insufficient-ingredient conflicts with
// their per-ingredient detail rows and defers everything else to the
// standard error writer.
func writeReservationError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var insufficient *domain.InsufficientIngredientsError
	if errors.As(err, &insufficient) {
		httputil.WriteJSON(w, http.StatusConflict, httputil.ErrorBody{
			Error:     insufficient.Error(),
			Code:      "INSUFFICIENT_INGREDIENTS",
			RequestID: logger.RequestIDFromContext(r.Context()),
			Errors:    insufficient.Shortages,
		})
		return
	}

	httputil.WriteError(w, r, err, fallback)
}
