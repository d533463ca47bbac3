package notify

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Hub is the process-wide registry of live push connections, keyed by user
// id. Connections join on websocket open and leave on close; nothing about
// them is persisted.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]bool),
		logger:  logger.Named("hub"),
	}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, exists := h.clients[userID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Send pushes an event to every live connection of the recipient.
// Best-effort: a recipient without connections is a no-op, and a failed write
// drops that connection without reporting an error.
func (h *Hub) Send(userID uint, event any) {
	h.mu.RLock()
	conns, exists := h.clients[userID]
	if !exists || len(conns) == 0 {
		h.mu.RUnlock()
		return
	}

	targets := make([]*websocket.Conn, 0, len(conns))
	for conn := range conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			h.logger.Warn("failed to set write deadline", zap.Uint("user_id", userID), zap.Error(err))
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			h.logger.Warn("push failed, dropping connection", zap.Uint("user_id", userID), zap.Error(err))
			h.Unregister(userID, conn)
			conn.Close()
		}
	}
}
