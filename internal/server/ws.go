package server

import (
	"net/http"
	"time"

	"adslot-auction/internal/broadcast"
	"adslot-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is delegated to the fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamEventsHandler upgrades GET /ws to a WebSocket and forwards hub events
// to the client as JSON until it disconnects. Delivery is best-effort: a
// client that misses events while disconnected re-fetches auction state on
// reconnect instead of asking for a replay.
func StreamEventsHandler(hub *broadcast.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
			return
		}
		defer conn.Close()

		events, cancel := hub.Subscribe()
		defer cancel()

		utils.Info("websocket subscriber connected", map[string]any{"remote": conn.RemoteAddr().String()})

		// Reader goroutine: detect client disconnect and close notifications.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		pinger := time.NewTicker(wsPingInterval)
		defer pinger.Stop()

		for {
			select {
			case <-done:
				utils.Info("websocket subscriber disconnected", map[string]any{"remote": conn.RemoteAddr().String()})
				return
			case <-pinger.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case e, ok := <-events:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(e); err != nil {
					utils.Warn("websocket write failed, dropping subscriber", map[string]any{
						"remote": conn.RemoteAddr().String(),
						"error":  err.Error(),
					})
					return
				}
			}
		}
	}
}
