// Package notify implements the WebSocket change notifier. Clients
// receive a single opaque signal after any committed mutation and are
// expected to refetch whatever views they care about.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// stateChanged is the only message the hub ever sends. It carries no
// entity data on purpose.
var stateChanged = []byte(`{"type":"stateChanged"}`)

// Hub fans the change signal out to every connected WebSocket client.
// Broadcast never blocks the caller: signals are queued on a buffered
// channel and coalescing dropped signals is harmless because the message
// is contentless.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	logger    *slog.Logger
}

// NewHub creates a hub. Run must be started on its own goroutine before
// the first Broadcast.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
		logger:    logger,
	}
}

// Run delivers queued signals to all connected clients until ctx is
// cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("dropping websocket client after write failure",
				slog.String("error", err.Error()),
			)
			h.RemoveClient(conn)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

// AddClient registers a newly upgraded connection.
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

// RemoveClient unregisters a connection and closes it.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues the stateChanged signal for delivery. It never blocks;
// if the queue is full the signal is dropped, which is safe because a
// queued signal already tells clients to refetch.
func (h *Hub) Broadcast() {
	select {
	case h.broadcast <- stateChanged:
	default:
	}
}
