package websocket

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var ErrTooManyConnections = errors.New("too many live connections")

type HandlerConfig struct {
	ReadBufferSize   int
	WriteBufferSize  int
	HandshakeTimeout time.Duration
	MaxConnections   int
	AllowedOrigins   []string
}

type Handler struct {
	hub            *Hub
	upgrader       websocket.Upgrader
	maxConnections int
}

// NewHandler builds the upgrader for hub. The caller runs the hub.
func NewHandler(hub *Hub, config HandlerConfig) *Handler {
	allowAll := len(config.AllowedOrigins) == 0 || slices.Contains(config.AllowedOrigins, "*")

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   config.ReadBufferSize,
			WriteBufferSize:  config.WriteBufferSize,
			HandshakeTimeout: config.HandshakeTimeout,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(config.AllowedOrigins, origin)
			},
		},
		maxConnections: config.MaxConnections,
	}
}

// Accept upgrades the request and starts the client's pumps. On error the
// upgrader has already answered the request, except for
// ErrTooManyConnections, which the caller reports.
func (h *Handler) Accept(c *gin.Context, sessionID, adminID, feed string, onMessage MessageHandler) (*Client, error) {
	if h.maxConnections > 0 && h.hub.Count() >= h.maxConnections {
		return nil, ErrTooManyConnections
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return nil, err
	}

	client := NewClient(h.hub, conn, sessionID, adminID, feed, onMessage)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	return client, nil
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
