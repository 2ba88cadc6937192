package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"meetio/services/notification"
	"meetio/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the web app.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// roomControl is the client -> server frame for joining and leaving expert
// rooms, mirroring the join_expert_room / leave_expert_room socket protocol
// the web client speaks.
type roomControl struct {
	Action   string `json:"action"`
	ExpertID string `json:"expertId"`
}

// RealtimeHandler upgrades viewers to a WebSocket and bridges them onto the
// notification hub.
type RealtimeHandler struct {
	Hub *notification.Hub
}

// NewRealtimeHandler constructs a RealtimeHandler.
func NewRealtimeHandler(hub *notification.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// Serve handles one client connection for its whole lifetime.
func (h *RealtimeHandler) Serve(c *gin.Context) {
	logger := utils.GetLogger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := notification.NewSubscriber(uuid.New().String())
	done := make(chan struct{})

	logger.Debug("client connected", zap.String("connectionId", sub.ID))

	go h.writePump(conn, sub, done)
	h.readPump(conn, sub, done)
}

// readPump consumes room control frames until the connection drops, then
// tears down every subscription the connection held.
func (h *RealtimeHandler) readPump(conn *websocket.Conn, sub *notification.Subscriber, done chan struct{}) {
	logger := utils.GetLogger()
	defer func() {
		close(done)
		h.Hub.UnsubscribeAll(sub)
		conn.Close()
		logger.Debug("client disconnected", zap.String("connectionId", sub.ID))
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ctrl roomControl
		if err := json.Unmarshal(message, &ctrl); err != nil || ctrl.ExpertID == "" {
			continue
		}
		switch ctrl.Action {
		case "join_expert":
			h.Hub.Subscribe(sub, ctrl.ExpertID)
		case "leave_expert":
			h.Hub.Unsubscribe(sub, ctrl.ExpertID)
		}
	}
}

// writePump pushes slot events and keepalive pings to the client.
func (h *RealtimeHandler) writePump(conn *websocket.Conn, sub *notification.Subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
