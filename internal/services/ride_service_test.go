package services

import (
	"context"
	"errors"
	"testing"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/documents"
	"rideadmin/pkg/logger"
)

func TestRideService_ResolvesNamesAndPlaceholders(t *testing.T) {
	repos := newTestRepos()
	repos.putAccount("r1", "client", "Peter Ssemakula", "", nil)
	repos.putAccount("d1", "driver", "Grace Nakato", "", nil)

	repos.putBooking("b1", map[string]interface{}{
		"type":        "ride",
		"clientId":    "r1",
		"driverId":    "d1",
		"status":      "completed",
		"amount":      2500.0,
		"distance":    4.26,
		"pickup":      map[string]interface{}{"address": "Kimihurura"},
		"destination": map[string]interface{}{"address": "Remera"},
		"createdAt":   day,
	})
	repos.putBooking("b2", map[string]interface{}{
		"type":     "ride",
		"clientId": "r1",
		"driverId": "gone",
		"status":   "ongoing",
	})
	repos.putBooking("b3", map[string]interface{}{"type": "rental", "clientId": "r1"})

	svc := NewRideService(repos.bookings, repos.accounts, logger.NewNop())
	list, err := svc.List(context.Background(), models.RideFilter{Status: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if list.Total != 2 || len(list.Rows) != 2 {
		t.Fatalf("expected 2 rides, got %+v", list)
	}
	if list.Ongoing != 1 || list.Completed != 1 {
		t.Errorf("unexpected header counts: ongoing %d, completed %d", list.Ongoing, list.Completed)
	}

	first := list.Rows[0]
	if first.UserName != "Peter Ssemakula" || first.DriverName != "Grace Nakato" {
		t.Errorf("expected real names, got %q and %q", first.UserName, first.DriverName)
	}
	if first.From != "Kimihurura" || first.To != "Remera" || first.Fare != 2500 || first.Distance != "4.3 km" {
		t.Errorf("unexpected row: %+v", first)
	}

	second := list.Rows[1]
	if second.UserName != "Peter Ssemakula" || second.DriverName != models.UnknownDriver {
		t.Errorf("expected driver placeholder, got %q", second.DriverName)
	}
	if second.From != models.UnknownPickup || second.To != models.UnknownDestination || second.Distance != models.UnknownDistance {
		t.Errorf("expected placeholders, got %+v", second)
	}
}

func TestRideService_StrayAccountsDoNotFailListing(t *testing.T) {
	repos := newTestRepos()
	repos.putAccount("d1", "driver", "Grace Nakato", "suspended", nil)
	repos.store.Put(documents.UsersCollection, "r1", map[string]interface{}{"role": "client", "name": 42})

	repos.putBooking("b1", map[string]interface{}{
		"type":     "ride",
		"clientId": "r1",
		"driverId": "d1",
		"status":   "ongoing",
	})

	svc := NewRideService(repos.bookings, repos.accounts, logger.NewNop())
	list, err := svc.List(context.Background(), models.RideFilter{Status: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Rows) != 1 {
		t.Fatalf("expected 1 ride, got %d", len(list.Rows))
	}

	row := list.Rows[0]
	if row.DriverName != "Grace Nakato" {
		t.Errorf("expected the stored driver name despite an unknown status, got %q", row.DriverName)
	}
	if row.UserName != models.UnknownUser {
		t.Errorf("expected the user placeholder for an undecodable account, got %q", row.UserName)
	}
}

func TestRideService_Filter(t *testing.T) {
	repos := newTestRepos()
	repos.putAccount("d1", "driver", "Grace", "", nil)
	repos.putBooking("b1", map[string]interface{}{"type": "ride", "driverId": "d1", "status": "completed"})
	repos.putBooking("b2", map[string]interface{}{"type": "ride", "status": "cancelled",
		"destination": map[string]interface{}{"address": "Nyamirambo"}})

	svc := NewRideService(repos.bookings, repos.accounts, logger.NewNop())
	ctx := context.Background()

	list, err := svc.List(ctx, models.RideFilter{Status: "cancelled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Rows) != 1 || list.Rows[0].ID != "b2" || list.Total != 2 {
		t.Errorf("expected only b2, got %+v", list.Rows)
	}

	list, err = svc.List(ctx, models.RideFilter{Search: "nyami"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Rows) != 1 || list.Rows[0].ID != "b2" {
		t.Errorf("expected search on destination, got %+v", list.Rows)
	}

	list, err = svc.List(ctx, models.RideFilter{Search: "grace"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Rows) != 1 || list.Rows[0].ID != "b1" {
		t.Errorf("expected search on driver name, got %+v", list.Rows)
	}

	if _, err := svc.List(ctx, models.RideFilter{Status: "lost"}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}
