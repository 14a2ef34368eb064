package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Jomkit/KitchenSync/internal/params"
	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/httputil"
	"github.com/Jomkit/KitchenSync/pkg/middleware"
)

// AdminHandler handles HTTP requests for the runtime reservation
// parameters.
type AdminHandler struct {
	params   *params.Registry
	notifier service.Notifier
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(registry *params.Registry, notifier service.Notifier, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		params:   registry,
		notifier: notifier,
		logger:   logger,
	}
}

// UpdateReservationTTLRequest is the JSON request body for updating the
// runtime reservation parameters. At least one field must be present.
type UpdateReservationTTLRequest struct {
	TTLMinutes              *int `json:"ttl_minutes"`
	WarningThresholdSeconds *int `json:"warning_threshold_seconds"`
}

// ReservationTTLResponse is the JSON view of the runtime reservation
// parameters, including their admissible bounds.
type ReservationTTLResponse struct {
	TTLSeconds              int `json:"ttl_seconds"`
	TTLMinutes              int `json:"ttl_minutes"`
	MinSeconds              int `json:"min_seconds"`
	MaxSeconds              int `json:"max_seconds"`
	MinMinutes              int `json:"min_minutes"`
	MaxMinutes              int `json:"max_minutes"`
	WarningThresholdSeconds int `json:"warning_threshold_seconds"`
	WarningMinSeconds       int `json:"warning_min_seconds"`
	WarningMaxSeconds       int `json:"warning_max_seconds"`
}

func (h *AdminHandler) ttlResponse(ttlSeconds, warningSeconds int) ReservationTTLResponse {
	return ReservationTTLResponse{
		TTLSeconds:              ttlSeconds,
		TTLMinutes:              ttlSeconds / 60,
		MinSeconds:              params.TTLMinSeconds,
		MaxSeconds:              params.TTLMaxSeconds,
		MinMinutes:              params.TTLMinSeconds / 60,
		MaxMinutes:              params.TTLMaxSeconds / 60,
		WarningThresholdSeconds: warningSeconds,
		WarningMinSeconds:       params.WarningMinSeconds,
		WarningMaxSeconds:       params.WarningMaxSeconds,
	}
}

// GetReservationTTL handles GET /admin/reservation-ttl.
func (h *AdminHandler) GetReservationTTL(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK,
		h.ttlResponse(h.params.TTLSeconds(), h.params.WarningSeconds()))
}

// UpdateReservationTTL handles PATCH /admin/reservation-ttl. Connected
// clients are notified only when a value actually changed.
func (h *AdminHandler) UpdateReservationTTL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateReservationTTLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		code, message := ttlDecodeError(err)
		httputil.WriteErrorBody(w, r, http.StatusBadRequest, code, message)
		return
	}

	if req.TTLMinutes == nil && req.WarningThresholdSeconds == nil {
		httputil.WriteErrorBody(w, r, http.StatusBadRequest, "TTL_PAYLOAD_REQUIRED",
			"ttl_minutes or warning_threshold_seconds is required")
		return
	}

	oldTTL := h.params.TTLSeconds()
	oldWarning := h.params.WarningSeconds()

	if req.TTLMinutes != nil {
		if err := h.params.SetTTLSeconds(*req.TTLMinutes * 60); err != nil {
			httputil.WriteErrorBody(w, r, http.StatusBadRequest, "TTL_MINUTES_OUT_OF_RANGE",
				fmt.Sprintf("ttl_minutes must be between %d and %d",
					params.TTLMinSeconds/60, params.TTLMaxSeconds/60))
			return
		}
	}
	if req.WarningThresholdSeconds != nil {
		if err := h.params.SetWarningSeconds(*req.WarningThresholdSeconds); err != nil {
			httputil.WriteErrorBody(w, r, http.StatusBadRequest, "WARNING_THRESHOLD_OUT_OF_RANGE",
				fmt.Sprintf("warning_threshold_seconds must be between %d and %d",
					params.WarningMinSeconds, params.WarningMaxSeconds))
			return
		}
	}

	newTTL := h.params.TTLSeconds()
	newWarning := h.params.WarningSeconds()

	h.logger.InfoContext(r.Context(), "reservation parameters updated",
		slog.Int64("actor_user_id", middleware.UserIDFromContext(r.Context())),
		slog.String("actor_role", middleware.RoleFromContext(r.Context())),
		slog.Int("old_ttl_seconds", oldTTL),
		slog.Int("new_ttl_seconds", newTTL),
		slog.Int("old_warning_seconds", oldWarning),
		slog.Int("new_warning_seconds", newWarning),
	)

	if (oldTTL != newTTL || oldWarning != newWarning) && h.notifier != nil {
		h.notifier.Broadcast()
	}

	httputil.WriteJSON(w, http.StatusOK, h.ttlResponse(newTTL, newWarning))
}

// ttlDecodeError maps a JSON decode failure to the field-specific error
// code promised by the admin API contract.
func ttlDecodeError(err error) (code, message string) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "ttl_minutes":
			return "TTL_MINUTES_INVALID", "ttl_minutes must be an integer"
		case "warning_threshold_seconds":
			return "WARNING_THRESHOLD_INVALID", "warning_threshold_seconds must be an integer"
		}
	}
	return "TTL_PAYLOAD_REQUIRED", "ttl_minutes or warning_threshold_seconds is required"
}
