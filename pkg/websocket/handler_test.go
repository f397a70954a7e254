package websocket

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHandlerAppliesDefaults(t *testing.T) {
	h := NewHandler(nil)

	assert.Equal(t, defaultBufferSize, h.upgrader.ReadBufferSize)
	assert.Equal(t, defaultBufferSize, h.upgrader.WriteBufferSize)
	assert.Equal(t, defaultPongWait, h.config.PongTimeout)
	assert.Equal(t, (defaultPongWait*9)/10, h.config.PingInterval)
	assert.False(t, h.upgrader.EnableCompression)
}

func TestNewHandlerKeepsConfiguredValues(t *testing.T) {
	h := NewHandler(&Config{
		ReadBufferSize:    4096,
		WriteBufferSize:   2048,
		HandshakeTimeout:  5 * time.Second,
		PingInterval:      20 * time.Second,
		PongTimeout:       30 * time.Second,
		MaxConnections:    500,
		EnableCompression: true,
	})

	assert.Equal(t, 4096, h.upgrader.ReadBufferSize)
	assert.Equal(t, 2048, h.upgrader.WriteBufferSize)
	assert.Equal(t, 5*time.Second, h.upgrader.HandshakeTimeout)
	assert.Equal(t, 20*time.Second, h.config.PingInterval)
	assert.Equal(t, 30*time.Second, h.config.PongTimeout)
	assert.Equal(t, 500, h.config.MaxConnections)
	assert.True(t, h.upgrader.EnableCompression)
}

func TestNewHandlerRejectsPingSlowerThanPong(t *testing.T) {
	// A ping interval at or beyond the pong timeout would drop every
	// idle connection, so it falls back to the 9/10 ratio
	h := NewHandler(&Config{
		PingInterval: 90 * time.Second,
		PongTimeout:  60 * time.Second,
	})

	assert.Equal(t, (60*time.Second*9)/10, h.config.PingInterval)
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"empty list allows all", nil, "https://evil.example", true},
		{"wildcard allows all", []string{"*"}, "https://anywhere.example", true},
		{"listed origin accepted", []string{"https://app.dentastore.fr"}, "https://app.dentastore.fr", true},
		{"unlisted origin refused", []string{"https://app.dentastore.fr"}, "https://evil.example", false},
		{"missing origin refused when restricted", []string{"https://app.dentastore.fr"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := originChecker(tt.allowed)
			req := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(req))
		})
	}
}

func TestHubClientCount(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.ClientCount())

	hub.clients[&Client{send: make(chan []byte, 1)}] = true
	hub.clients[&Client{send: make(chan []byte, 1)}] = true
	assert.Equal(t, 2, hub.ClientCount())
}
