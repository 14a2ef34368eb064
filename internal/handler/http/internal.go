package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/httputil"
)

// InternalHandler handles the operator-only maintenance endpoints, guarded
// by a shared secret header instead of a user token.
type InternalHandler struct {
	secret  string
	service *service.ReservationService
	logger  *slog.Logger
}

// NewInternalHandler creates a new internal HTTP handler.
func NewInternalHandler(secret string, svc *service.ReservationService, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{
		secret:  secret,
		service: svc,
		logger:  logger,
	}
}

// ExpireOnceResponse is the JSON response body for a sweep run.
type ExpireOnceResponse struct {
	Status       string `json:"status"`
	ExpiredCount int    `json:"expired_count"`
}

// ExpireOnce handles POST /internal/expire_once, running a single
// expiration sweep over overdue active reservations.
func (h *InternalHandler) ExpireOnce(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Internal-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		h.logger.WarnContext(r.Context(), "expire_once rejected, bad internal secret")
		httputil.WriteErrorBody(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	count, err := h.service.ExpireOverdue(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "expire_once executed", slog.Int("expired_count", count))
	httputil.WriteJSON(w, http.StatusOK, ExpireOnceResponse{Status: "ok", ExpiredCount: count})
}
