package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rideadmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, maxConnections int, onMessage MessageHandler) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(logger.NewNop())
	go hub.Run(ctx)

	handler := NewHandler(hub, HandlerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MaxConnections:  maxConnections,
	})

	router := gin.New()
	router.GET("/live/:session", func(c *gin.Context) {
		if _, err := handler.Accept(c, c.Param("session"), "admin-1", "test", onMessage); err != nil {
			c.String(503, err.Error())
		}
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/live/" + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_EchoesThroughHandler(t *testing.T) {
	_, server := newTestServer(t, 0, func(client *Client, msg Message) {
		client.Send("echo", map[string]string{"type": msg.Type})
	})

	conn := dial(t, server, "s1")
	if msg := readMessage(t, conn); msg.Type != MessageWelcome {
		t.Fatalf("expected welcome, got %q", msg.Type)
	}

	if err := conn.WriteJSON(Message{Type: "filter"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != "echo" {
		t.Fatalf("expected echo, got %q", msg.Type)
	}
	var data map[string]string
	if err := json.Unmarshal(msg.Data, &data); err != nil || data["type"] != "filter" {
		t.Errorf("unexpected echo payload %s", msg.Data)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageError {
		t.Errorf("expected error frame, got %q", msg.Type)
	}
}

func TestHub_RevocationClosesSessionClients(t *testing.T) {
	hub, server := newTestServer(t, 0, nil)

	revoked := dial(t, server, "s1")
	kept := dial(t, server, "s2")
	readMessage(t, revoked)
	readMessage(t, kept)
	waitForCount(t, hub, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	revocations := make(chan string, 1)
	go hub.WatchRevocations(ctx, revocations)
	revocations <- "s1"

	revoked.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := revoked.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
		t.Errorf("expected close frame, got %v", err)
	}
	waitForCount(t, hub, 1)
}

func TestHandler_ConnectionLimit(t *testing.T) {
	hub, server := newTestServer(t, 1, nil)

	conn := dial(t, server, "s1")
	readMessage(t, conn)
	waitForCount(t, hub, 1)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/live/s2"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected the second connection to be refused")
	}
	if resp == nil || resp.StatusCode != 503 {
		t.Errorf("expected 503, got %v", resp)
	}
}
