package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"courier_service/internal/middleware"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// updateMessage is the envelope pushed to dashboard and driver clients for
// every mutation: {type, data, timestamp}.
type updateMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// UpdateHub fans mutation events out to every connected dashboard and keeps a
// per-driver room for targeted notifications.
type UpdateHub struct {
	clients     map[*websocket.Conn]bool
	driverRooms map[string]map[*websocket.Conn]bool
	broadcast   chan updateMessage
	mu          sync.Mutex
}

// Hub is the process-wide update hub used by the controllers.
var Hub = NewUpdateHub()

// NewUpdateHub creates a hub and starts its broadcast goroutine.
func NewUpdateHub() *UpdateHub {
	hub := &UpdateHub{
		clients:     make(map[*websocket.Conn]bool),
		driverRooms: make(map[string]map[*websocket.Conn]bool),
		broadcast:   make(chan updateMessage, 100),
	}
	go hub.run()
	return hub
}

func (h *UpdateHub) run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(msg); err != nil {
				logrus.WithError(err).Warn("Dropping update client after write failure")
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Broadcast queues an update for every connected client.
func (h *UpdateHub) Broadcast(eventType string, data interface{}) {
	select {
	case h.broadcast <- updateMessage{Type: eventType, Data: data, Timestamp: time.Now()}:
	default:
		logrus.Warn("Update broadcast channel full, dropping event")
	}
}

// NotifyDriver sends a targeted notification to every connection in the
// driver's room.
func (h *UpdateHub) NotifyDriver(driverID, message string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.driverRooms[driverID]
	if !exists {
		return
	}
	note := gin.H{
		"message":   message,
		"data":      data,
		"timestamp": time.Now(),
	}
	for conn := range room {
		if err := conn.WriteJSON(note); err != nil {
			logrus.WithError(err).WithField("driver", driverID).Warn("Dropping driver connection after write failure")
			conn.Close()
			delete(room, conn)
		}
	}
}

func (h *UpdateHub) register(conn *websocket.Conn, driverID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	if driverID != "" {
		if h.driverRooms[driverID] == nil {
			h.driverRooms[driverID] = make(map[*websocket.Conn]bool)
		}
		h.driverRooms[driverID][conn] = true
	}
}

func (h *UpdateHub) unregister(conn *websocket.Conn, driverID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	if driverID != "" {
		if room, ok := h.driverRooms[driverID]; ok {
			delete(room, conn)
			if len(room) == 0 {
				delete(h.driverRooms, driverID)
			}
		}
	}
	conn.Close()
}

// ServeUpdates upgrades the connection and streams mutation events. Drivers
// pass ?driver_id= to also receive their targeted notifications; joining a
// driver room requires a valid token (browsers cannot set headers on a
// WebSocket handshake, so it travels as ?token=).
func ServeUpdates(c *gin.Context) {
	driverID := c.Query("driver_id")
	if driverID != "" {
		token, err := middleware.ValidateToken(c.Query("token"))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "valid token required to join a driver room"})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("WebSocket upgrade failed")
		return
	}
	Hub.register(conn, driverID)
	logrus.WithField("driver_id", driverID).Info("Update client connected")

	// Connection is read only to detect the close; clients never send data.
	go func() {
		defer Hub.unregister(conn, driverID)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
