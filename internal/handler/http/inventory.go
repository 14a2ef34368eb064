package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/httputil"
)

// InventoryHandler handles HTTP requests for the ingredient and menu
// availability endpoints.
type InventoryHandler struct {
	service *service.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory HTTP handler.
func NewInventoryHandler(svc *service.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: svc,
		logger:  logger,
	}
}

// UpdateIngredientRequest is the JSON request body for a kitchen stock
// patch. Both fields are optional but at least one must be present.
type UpdateIngredientRequest struct {
	OnHandQty *int  `json:"on_hand_qty"`
	IsOut     *bool `json:"is_out"`
}

// ListIngredients handles GET /ingredients.
func (h *InventoryHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListIngredients(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rows)
}

// ListMenu handles GET /menu.
func (h *InventoryHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListMenu(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rows)
}

// UpdateIngredient handles PATCH /ingredients/{id}.
func (h *InventoryHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteErrorBody(w, r, http.StatusBadRequest, "VALIDATION", stockPatchDecodeMessage(err))
		return
	}

	row, err := h.service.UpdateStock(r.Context(), id, service.StockPatch{
		OnHandQty: req.OnHandQty,
		IsOut:     req.IsOut,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, row)
}

// stockPatchDecodeMessage maps a JSON decode failure to a field-specific
// message when the offending field is known.
func stockPatchDecodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "on_hand_qty":
			return "on_hand_qty must be an integer"
		case "is_out":
			return "is_out must be a boolean"
		}
	}
	return "invalid request body"
}
