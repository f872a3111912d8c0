package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var ErrClientClosed = errors.New("websocket client closed")

// MessageHandler receives every well-formed frame a client sends.
type MessageHandler func(client *Client, msg Message)

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sendMu    sync.Mutex
	closed    bool
	done      chan struct{}
	onMessage MessageHandler

	SessionID string
	AdminID   string
	Feed      string
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID, adminID, feed string, onMessage MessageHandler) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		onMessage: onMessage,
		SessionID: sessionID,
		AdminID:   adminID,
		Feed:      feed,
	}
}

// Done is closed once the connection is gone, whichever side ended it.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Send queues a frame. A client that cannot keep up is disconnected.
func (c *Client) Send(msgType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.enqueue(Message{Type: msgType, Data: payload, Timestamp: getCurrentTimestamp()})
}

// SendError queues an error frame.
func (c *Client) SendError(message string) error {
	return c.enqueue(Message{Type: MessageError, Error: message, Timestamp: getCurrentTimestamp()})
}

// Close asks the hub to drop the client. The write pump then sends a close
// frame and shuts the connection.
func (c *Client) Close() {
	select {
	case c.hub.unregister <- c:
	case <-c.done:
	}
}

func (c *Client) enqueue(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.closed = true
		close(c.send)
		return ErrClientClosed
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.closeSend()
		select {
		case c.hub.unregister <- c:
		case <-time.After(writeWait):
		}
		c.conn.Close()
		close(c.done)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).Warn("WebSocket read failed")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.SendError("malformed message")
			continue
		}
		if c.onMessage != nil {
			c.onMessage(c, msg)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
