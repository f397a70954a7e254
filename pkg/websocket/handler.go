package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Config mirrors the server's websocket section. Zero values fall back to
// the package defaults.
type Config struct {
	ReadBufferSize    int
	WriteBufferSize   int
	HandshakeTimeout  time.Duration
	PingInterval      time.Duration
	PongTimeout       time.Duration
	MaxConnections    int
	EnableCompression bool
	AllowedOrigins    []string
}

type Handler struct {
	hub      *Hub
	config   *Config
	upgrader websocket.Upgrader
}

func NewHandler(config *Config) *Handler {
	if config == nil {
		config = &Config{}
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = defaultBufferSize
	}
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = defaultBufferSize
	}
	if config.PongTimeout <= 0 {
		config.PongTimeout = defaultPongWait
	}
	if config.PingInterval <= 0 || config.PingInterval >= config.PongTimeout {
		// Pings must arrive before the read deadline expires
		config.PingInterval = (config.PongTimeout * 9) / 10
	}

	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub:    hub,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    config.ReadBufferSize,
			WriteBufferSize:   config.WriteBufferSize,
			HandshakeTimeout:  config.HandshakeTimeout,
			EnableCompression: config.EnableCompression,
			CheckOrigin:       originChecker(config.AllowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := len(allowed) == 0
	origins := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		origins[origin] = true
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		return origins[r.Header.Get("Origin")]
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userRole, exists := c.Get("user_role")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	userRoleStr, ok := userRole.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user role"})
		return
	}

	if h.config.MaxConnections > 0 && h.hub.ClientCount() >= h.config.MaxConnections {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many connections"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userObjectID, userRoleStr, h.config.PongTimeout, h.config.PingInterval)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) SendConversationUpdate(conversationID primitive.ObjectID, updateType string, data map[string]interface{}) {
	message := Message{
		Type:      updateType,
		RoomID:    "conversation_" + conversationID.Hex(),
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.SendConversationUpdate(conversationID, message)
}

func (h *Handler) SendUserNotification(userID primitive.ObjectID, notificationType string, data map[string]interface{}) {
	message := Message{
		Type:      notificationType,
		UserID:    userID,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.SendToUser(userID, message)
}

func (h *Handler) NotifySupport(eventType string, data map[string]interface{}) {
	message := Message{
		Type:      eventType,
		RoomID:    "support",
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.NotifySupport(message)
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
