package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jomkit/KitchenSync/internal/auth"
	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/internal/notify"
	"github.com/Jomkit/KitchenSync/internal/params"
	"github.com/Jomkit/KitchenSync/internal/service"
	"github.com/Jomkit/KitchenSync/pkg/health"
	"github.com/Jomkit/KitchenSync/pkg/httputil"
	"github.com/Jomkit/KitchenSync/pkg/middleware"
)

// RouterConfig carries everything the route table needs.
type RouterConfig struct {
	AuthService        *service.AuthService
	InventoryService   *service.InventoryService
	ReservationService *service.ReservationService
	Params             *params.Registry
	Hub                *notify.Hub
	Tokens             *auth.Manager
	Health             *health.Handler
	CORS               middleware.CORSConfig
	InternalSecret     string
	Logger             *slog.Logger
}

// NewRouter creates a chi router with all service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing("kitchensync"))
	r.Use(middleware.PrometheusMetrics("kitchensync"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health and metrics endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	inventoryHandler := NewInventoryHandler(cfg.InventoryService, cfg.Logger)
	reservationHandler := NewReservationHandler(cfg.ReservationService, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Params, cfg.Hub, cfg.Logger)
	internalHandler := NewInternalHandler(cfg.InternalSecret, cfg.ReservationService, cfg.Logger)
	wsHandler := NewWSHandler(cfg.Hub, cfg.Logger)

	// Public endpoints
	r.Get("/ingredients", inventoryHandler.ListIngredients)
	r.Get("/menu", inventoryHandler.ListMenu)
	r.Get("/ws", wsHandler.Serve)
	r.With(ContentTypeJSON).Post("/auth/login", authHandler.Login)

	// Operator endpoint, guarded by a shared secret header
	r.Post("/internal/expire_once", internalHandler.ExpireOnce)

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator(cfg.Tokens)))

		r.Get("/auth/me", authHandler.Me)

		r.With(middleware.RequireRole(domain.RoleKitchen)).
			Get("/kitchen/overview", authHandler.KitchenOverview)
		r.With(middleware.RequireRole(domain.RoleFOH)).
			Get("/foh/overview", authHandler.FOHOverview)

		r.With(middleware.RequireRole(domain.RoleKitchen), ContentTypeJSON).
			Patch("/ingredients/{id}", inventoryHandler.UpdateIngredient)

		r.Route("/reservations", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleOnline, domain.RoleFOH))

			r.With(ContentTypeJSON).Post("/", reservationHandler.Create)
			r.With(ContentTypeJSON).Patch("/{id}", reservationHandler.Update)
			r.Post("/{id}/commit", reservationHandler.Commit)
			r.Post("/{id}/release", reservationHandler.Release)
		})

		r.Route("/admin/reservation-ttl", func(r chi.Router) {
			r.With(middleware.RequireRole(domain.RoleOnline, domain.RoleFOH)).
				Get("/", adminHandler.GetReservationTTL)
			r.With(middleware.RequireRole(domain.RoleFOH), ContentTypeJSON).
				Patch("/", adminHandler.UpdateReservationTTL)
		})
	})

	return r
}

// tokenValidator adapts the JWT manager to the auth middleware's contract.
func tokenValidator(m *auth.Manager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := m.Validate(token)
		if err != nil {
			return nil, err
		}
		userID, err := claims.UserID()
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: userID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
}
