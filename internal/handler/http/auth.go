package http

import (
	"log/slog"
	"net/http"

	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/httputil"
	"github.com/Jomkit/KitchenSync/pkg/middleware"
	"github.com/Jomkit/KitchenSync/pkg/validator"
)

// AuthHandler handles HTTP requests for login and identity endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

// LoginRequest is the JSON request body for login. The username field
// carries the account email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the JSON response body for a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// MeResponse is the JSON view of the authenticated caller.
type MeResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	// A malformed body, a wrong field type, and a missing field all get the
	// same response so the error does not leak payload structure.
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteErrorBody(w, r, http.StatusBadRequest, "VALIDATION",
			"username and password are required")
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, MeResponse{
		UserID: middleware.UserIDFromContext(r.Context()),
		Email:  middleware.EmailFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	})
}

// KitchenOverview handles GET /kitchen/overview, a role-gated endpoint used
// by the kitchen dashboard.
func (h *AuthHandler) KitchenOverview(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "kitchen access granted"})
}

// FOHOverview handles GET /foh/overview, a role-gated endpoint used by the
// front-of-house dashboard.
func (h *AuthHandler) FOHOverview(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "foh access granted"})
}
