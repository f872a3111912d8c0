package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"rideadmin/pkg/logger"
)

// Hub tracks every open live-view connection, indexed by the session that
// opened it, so that a revoked session can be disconnected everywhere.
type Hub struct {
	clients    map[*Client]bool
	sessions   map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	revoke     chan string
	mutex      sync.RWMutex
	logger     *logger.Logger
}

// Message is the frame exchanged with the browser in both directions.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

const (
	MessageSnapshot = "snapshot"
	MessageMutation = "mutation"
	MessageError    = "error"
	MessageWelcome  = "welcome"
)

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		revoke:     make(chan string, 16),
		logger:     log.WithComponent("websocket"),
	}
}

// Run serves registrations until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case sessionID := <-h.revoke:
			h.closeSession(sessionID)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// WatchRevocations disconnects the clients of every session id received on
// revoked. It returns when the channel closes or ctx ends.
func (h *Hub) WatchRevocations(ctx context.Context, revoked <-chan string) {
	for {
		select {
		case sessionID, ok := <-revoked:
			if !ok {
				return
			}
			select {
			case h.revoke <- sessionID:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	if h.sessions[client.SessionID] == nil {
		h.sessions[client.SessionID] = make(map[*Client]bool)
	}
	h.sessions[client.SessionID][client] = true

	h.logger.WithFields(map[string]interface{}{
		"admin_id": client.AdminID,
		"feed":     client.Feed,
	}).Debug("Client registered")

	client.Send(MessageWelcome, map[string]interface{}{
		"feed": client.Feed,
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		h.remove(client)
		h.logger.WithFields(map[string]interface{}{
			"admin_id": client.AdminID,
			"feed":     client.Feed,
		}).Debug("Client unregistered")
	}
}

func (h *Hub) closeSession(sessionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients := h.sessions[sessionID]
	for client := range clients {
		h.remove(client)
	}
	if len(clients) > 0 {
		h.logger.WithField("connections", len(clients)).Info("Closed live feeds of revoked session")
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		h.remove(client)
	}
}

// remove must be called with h.mutex held.
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	if room, ok := h.sessions[client.SessionID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.sessions, client.SessionID)
		}
	}
	client.closeSend()
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
