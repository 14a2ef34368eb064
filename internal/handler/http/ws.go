package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Jomkit/KitchenSync/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser dashboards connect cross-origin; authz happens on the
		// API calls they make in response to change pings.
		return true
	},
}

// WSHandler upgrades dashboard connections and registers them with the
// change-notification hub.
type WSHandler struct {
	hub    *notify.Hub
	logger *slog.Logger
}

// NewWSHandler creates a new websocket HTTP handler.
func NewWSHandler(hub *notify.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
	}
}

// Serve handles GET /ws. The connection is write-only from the server's
// point of view; the read loop exists to detect disconnects.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()),
		)
		return
	}

	h.hub.AddClient(conn)
	h.logger.InfoContext(r.Context(), "websocket client connected",
		slog.Int("client_count", h.hub.ClientCount()),
	)

	defer func() {
		h.hub.RemoveClient(conn)
		h.logger.InfoContext(r.Context(), "websocket client disconnected",
			slog.Int("client_count", h.hub.ClientCount()),
		)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WarnContext(r.Context(), "websocket read error",
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}
