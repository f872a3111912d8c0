package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/documents"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/storage"
	"rideadmin/pkg/websocket"

	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
)

// rejectingAccountRepo fails status writes for one account.
type rejectingAccountRepo struct {
	interfaces.AccountRepository
	rejectID string
}

func (r *rejectingAccountRepo) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	if id == r.rejectID {
		return errors.New("write rejected")
	}
	return r.AccountRepository.UpdateStatus(ctx, id, status)
}

func newLiveServer(t *testing.T) (*docstore.MemoryStore, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	store := docstore.NewMemoryStore()
	store.Put(documents.UsersCollection, "d1", map[string]interface{}{"role": "driver", "name": "Grace Nakato", "status": "offline"})
	store.Put(documents.UsersCollection, "d2", map[string]interface{}{"role": "driver", "name": "Mike Johnson", "status": "active"})
	store.Put(documents.BookingsCollection, "b1", map[string]interface{}{
		"type": "ride", "driverId": "d2", "status": "completed", "amount": 2500.0,
		"createdAt": time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	})

	accounts := &rejectingAccountRepo{AccountRepository: documents.NewAccountRepository(store, log), rejectID: "d1"}
	bookings := documents.NewBookingRepository(store, log)
	payments := documents.NewPaymentRepository(store, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	live := NewLiveHandler(
		services.NewDashboardService(accounts, bookings, payments, "RWF", log),
		services.NewAnalyticsService(accounts, bookings, payments, "RWF", log),
		services.NewAccountService(accounts, bookings, nil, storage.NewLocalStorage("http://files.local"),
			services.AccountServiceConfig{SearchDebounce: 100 * time.Millisecond, DocumentURLTTL: time.Minute}, log),
		websocket.NewHandler(hub, websocket.HandlerConfig{ReadBufferSize: 1024, WriteBufferSize: 1024}),
		log,
	)

	session := &models.Session{ID: "s1", UID: "admin-1"}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(utils.ContextKeySession, session)
		c.Next()
	})
	router.GET("/live/dashboard", live.Dashboard)
	router.GET("/live/drivers", live.Accounts(models.RoleDriver))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return store, server
}

func dialLive(t *testing.T, server *httptest.Server, path string) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *ws.Conn, msgType string, data interface{}) {
	t.Helper()
	if err := conn.WriteJSON(map[string]interface{}{"type": msgType, "data": data}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

// readUntil reads frames until match accepts one, skipping the rest.
func readUntil(t *testing.T, conn *ws.Conn, match func(websocket.Message) bool) websocket.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var msg websocket.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func readDriverList(t *testing.T, conn *ws.Conn, match func(*models.AccountList) bool) *models.AccountList {
	t.Helper()
	var list *models.AccountList
	readUntil(t, conn, func(msg websocket.Message) bool {
		if msg.Type != websocket.MessageSnapshot {
			return false
		}
		list = &models.AccountList{}
		if err := json.Unmarshal(msg.Data, list); err != nil {
			t.Fatalf("bad snapshot: %v", err)
		}
		return match(list)
	})
	return list
}

func statusOf(list *models.AccountList, id string) models.AccountStatus {
	for _, row := range list.Rows {
		if row.ID == id {
			return row.Status
		}
	}
	return ""
}

func waitForWatchers(t *testing.T, store *docstore.MemoryStore, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for store.Watchers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d open subscriptions, have %d", want, store.Watchers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLiveHandler_AccountFeed(t *testing.T) {
	store, server := newLiveServer(t)
	conn := dialLive(t, server, "/live/drivers")

	first := readDriverList(t, conn, func(*models.AccountList) bool { return true })
	if len(first.Rows) != 2 || statusOf(first, "d1") != models.AccountStatusOffline {
		t.Fatalf("unexpected first snapshot: %+v", first)
	}

	// A rejected write answers with an error frame and the row reverts.
	sendFrame(t, conn, frameUpdateStatus, statusFrame{ID: "d1", Status: "active"})
	errFrame := readUntil(t, conn, func(msg websocket.Message) bool { return msg.Type == websocket.MessageError })
	if errFrame.Error != utils.ErrStatusUpdateFailed {
		t.Errorf("expected %q, got %q", utils.ErrStatusUpdateFailed, errFrame.Error)
	}
	readDriverList(t, conn, func(list *models.AccountList) bool {
		return statusOf(list, "d1") == models.AccountStatusOffline
	})

	for _, q := range []string{"m", "mi", "mik"} {
		sendFrame(t, conn, frameFilter, models.AccountFilter{Search: q})
	}
	filtered := readDriverList(t, conn, func(list *models.AccountList) bool { return list.Filter.Search != "" })
	if filtered.Filter.Search != "mik" || len(filtered.Rows) != 1 || filtered.Rows[0].ID != "d2" {
		t.Errorf("expected only the last filter to apply, got %+v", filtered)
	}

	sendFrame(t, conn, frameUpdateStatus, statusFrame{ID: "d2", Status: "banned"})
	mutationFrame := readUntil(t, conn, func(msg websocket.Message) bool { return msg.Type == websocket.MessageMutation })
	var mutation models.Mutation
	if err := json.Unmarshal(mutationFrame.Data, &mutation); err != nil {
		t.Fatalf("bad mutation: %v", err)
	}
	if mutation.State != models.MutationCommitted || mutation.AccountID != "d2" || mutation.To != models.AccountStatusBanned {
		t.Errorf("unexpected mutation: %+v", mutation)
	}

	sendFrame(t, conn, frameUpdateStatus, statusFrame{ID: "d2", Status: "suspended"})
	invalid := readUntil(t, conn, func(msg websocket.Message) bool { return msg.Type == websocket.MessageError })
	if invalid.Error == "" {
		t.Error("expected an error message for an invalid status")
	}

	if store.Watchers() == 0 {
		t.Fatal("expected the feed to hold a subscription while open")
	}
	conn.Close()
	waitForWatchers(t, store, 0)
}

func TestLiveHandler_DashboardFeedReportsUpstreamFailure(t *testing.T) {
	store, server := newLiveServer(t)
	conn := dialLive(t, server, "/live/dashboard")

	readUntil(t, conn, func(msg websocket.Message) bool { return msg.Type == websocket.MessageSnapshot })

	store.Close()

	errFrame := readUntil(t, conn, func(msg websocket.Message) bool { return msg.Type == websocket.MessageError })
	if errFrame.Error != utils.ErrInternalServer {
		t.Errorf("expected %q, got %q", utils.ErrInternalServer, errFrame.Error)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			t.Fatal("expected the server to close the socket")
		}
		break
	}
}

func TestLiveHandler_DashboardFeedReleasesSubscriptions(t *testing.T) {
	store, server := newLiveServer(t)
	conn := dialLive(t, server, "/live/dashboard")

	readUntil(t, conn, func(msg websocket.Message) bool { return msg.Type == websocket.MessageSnapshot })
	if store.Watchers() != 3 {
		t.Errorf("expected 3 open subscriptions, have %d", store.Watchers())
	}

	conn.Close()
	waitForWatchers(t, store, 0)
}
