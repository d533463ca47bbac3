package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/taskforge-dev/taskforge/internal/utils"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocket upgrades the request and parks the connection in the hub so
// notifications reach the caller in real time. The connection stays open
// until the client goes away or stops answering pings.
func (h *Handler) WebSocket(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range h.cfg.HTTP.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Uint("user_id", currentUser.ID), zap.Error(err))
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Warn("failed to set initial read deadline", zap.Error(err))
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.hub.Register(currentUser.ID, conn)

	defer func() {
		h.hub.Unregister(currentUser.ID, conn)
		conn.Close()
		h.logger.Debug("websocket connection closed", zap.Uint("user_id", currentUser.ID))
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.Warn("failed to set write deadline for welcome message", zap.Error(err))
		return
	}
	if err := conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	}); err != nil {
		h.logger.Warn("failed to send welcome message", zap.Error(err))
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", zap.Uint("user_id", currentUser.ID), zap.Error(err))
			}
			break
		}
	}
}
