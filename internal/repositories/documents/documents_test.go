package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/logger"
)

func receiveSnapshot[T any](t *testing.T, sub interfaces.Subscription[T]) interfaces.Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return interfaces.Snapshot[T]{}
}

func TestAccountRepository_SubscribeFiltersByRoleAndSkipsBadRecords(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Put(UsersCollection, "c1", map[string]interface{}{"role": "client", "name": "Alice"})
	store.Put(UsersCollection, "d1", map[string]interface{}{"role": "driver", "name": "Bob", "rating": 4.5, "rides": int64(12)})
	store.Put(UsersCollection, "d2", map[string]interface{}{"role": "driver", "status": "suspended"})
	store.Put(UsersCollection, "d3", map[string]interface{}{"role": "driver"})

	repo := NewAccountRepository(store, logger.NewNop())
	sub, err := repo.Subscribe(context.Background(), models.RoleDriver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Stop()

	snap := receiveSnapshot(t, sub)
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(snap.Items))
	}
	if snap.Skipped != 1 {
		t.Errorf("expected 1 skipped record, got %d", snap.Skipped)
	}

	bob := snap.Items[0]
	if bob.ID != "d1" || bob.Rides != 12 || bob.Rating == nil || *bob.Rating != 4.5 {
		t.Errorf("unexpected decode of d1: %+v", bob)
	}
	if bob.Status != models.AccountStatusOffline {
		t.Errorf("expected missing driver status to read as offline, got %q", bob.Status)
	}
	if snap.Items[1].DisplayName() != models.UnnamedAccount {
		t.Errorf("expected unnamed driver, got %q", snap.Items[1].DisplayName())
	}
}

func TestAccountRepository_UpdateStatusRedelivers(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Put(UsersCollection, "d1", map[string]interface{}{"role": "driver", "status": "offline"})

	repo := NewAccountRepository(store, logger.NewNop())
	sub, err := repo.Subscribe(context.Background(), models.RoleDriver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Stop()
	receiveSnapshot(t, sub)

	if err := repo.UpdateStatus(context.Background(), "d1", models.AccountStatusActive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := receiveSnapshot(t, sub)
	if len(snap.Items) != 1 || snap.Items[0].Status != models.AccountStatusActive {
		t.Fatalf("expected d1 active, got %+v", snap.Items)
	}
}

func TestAccountRepository_NotFound(t *testing.T) {
	repo := NewAccountRepository(docstore.NewMemoryStore(), logger.NewNop())

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound from GetByID, got %v", err)
	}
	if err := repo.UpdateStatus(context.Background(), "missing", models.AccountStatusBanned); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound from UpdateStatus, got %v", err)
	}
}

func TestBookingRepository_DecodeAndCounts(t *testing.T) {
	created := time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC)
	store := docstore.NewMemoryStore()
	store.Put(BookingsCollection, "b1", map[string]interface{}{
		"type":        "ride",
		"clientId":    "c1",
		"driverId":    "d1",
		"status":      "completed",
		"amount":      int64(2500),
		"distance":    3.42,
		"pickup":      map[string]interface{}{"address": "Kigali Heights"},
		"destination": map[string]interface{}{"address": "Nyamirambo"},
		"createdAt":   created,
	})
	store.Put(BookingsCollection, "b2", map[string]interface{}{"type": "rental", "clientId": "c1"})
	store.Put(BookingsCollection, "b3", map[string]interface{}{"type": "boat"})

	repo := NewBookingRepository(store, logger.NewNop())
	bookings, skipped, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 || skipped != 1 {
		t.Fatalf("expected 2 bookings and 1 skipped, got %d and %d", len(bookings), skipped)
	}

	b1 := bookings[0]
	if b1.PickupAddress != "Kigali Heights" || b1.DestinationAddress != "Nyamirambo" {
		t.Errorf("unexpected addresses: %+v", b1)
	}
	if b1.Amount != 2500 || b1.Distance == nil || *b1.Distance != 3.42 {
		t.Errorf("unexpected amount or distance: %+v", b1)
	}
	if day, ok := b1.Day(); !ok || day != "2024-12-01" {
		t.Errorf("expected day 2024-12-01, got %q", day)
	}
	if bookings[1].Status != models.BookingStatusPending {
		t.Errorf("expected missing status to read as pending, got %q", bookings[1].Status)
	}

	clientCount, err := repo.CountByClient(context.Background(), "c1")
	if err != nil || clientCount != 2 {
		t.Errorf("expected 2 bookings for c1, got %d (%v)", clientCount, err)
	}
	driverCount, err := repo.CountByDriver(context.Background(), "d1")
	if err != nil || driverCount != 1 {
		t.Errorf("expected 1 booking for d1, got %d (%v)", driverCount, err)
	}
}

func TestBookingRepository_SkipsUndecodableRecords(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Put(BookingsCollection, "b1", map[string]interface{}{"type": "ride", "createdAt": "2024-12-01 10:00"})
	store.Put(BookingsCollection, "b2", map[string]interface{}{"type": "ride", "amount": "2500"})
	store.Put(BookingsCollection, "b3", map[string]interface{}{"type": "ride", "createdAt": "2024-12-01T10:00:00Z"})

	repo := NewBookingRepository(store, logger.NewNop())
	bookings, skipped, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != "b3" || skipped != 2 {
		t.Fatalf("expected only b3 with 2 skipped, got %d bookings and %d skipped", len(bookings), skipped)
	}
	if day, ok := bookings[0].Day(); !ok || day != "2024-12-01" {
		t.Errorf("expected day 2024-12-01, got %q", day)
	}
}

func TestAccountRepository_GetByIDKeepsStoredEnums(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Put(UsersCollection, "d1", map[string]interface{}{"role": "driver", "name": "Grace", "status": "suspended"})
	store.Put(UsersCollection, "s1", map[string]interface{}{"role": "support", "name": "Sam"})
	store.Put(UsersCollection, "x1", map[string]interface{}{"role": "driver", "name": 42})

	repo := NewAccountRepository(store, logger.NewNop())
	ctx := context.Background()

	d1, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d1.Role != models.RoleDriver || d1.Status != "suspended" || d1.Name != "Grace" {
		t.Errorf("unexpected decode of d1: %+v", d1)
	}

	s1, err := repo.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.Role != "support" || s1.Status != "" {
		t.Errorf("unexpected decode of s1: %+v", s1)
	}

	if _, err := repo.GetByID(ctx, "x1"); !errors.Is(err, interfaces.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestPaymentRepository_OnlySuccessful(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Put(PaymentsCollection, "p1", map[string]interface{}{"status": "SUCCESSFUL", "amount": 1500.0})
	store.Put(PaymentsCollection, "p2", map[string]interface{}{"status": "FAILED", "amount": 9000.0})

	repo := NewPaymentRepository(store, logger.NewNop())
	sub, err := repo.SubscribeSuccessful(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Stop()

	snap := receiveSnapshot(t, sub)
	if len(snap.Items) != 1 || snap.Items[0].ID != "p1" || !snap.Items[0].IsSuccessful() {
		t.Fatalf("expected only p1, got %+v", snap.Items)
	}
}

func TestDecodedSubscription_ClosesWithSource(t *testing.T) {
	store := docstore.NewMemoryStore()
	repo := NewBookingRepository(store, logger.NewNop())

	sub, err := repo.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	receiveSnapshot(t, sub)

	store.Close()

	select {
	case _, ok := <-sub.Updates():
		if ok {
			// a final snapshot may still be buffered
			if _, ok = <-sub.Updates(); ok {
				t.Fatal("expected updates to close")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for close")
	}
	if !errors.Is(sub.Err(), docstore.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", sub.Err())
	}
}
