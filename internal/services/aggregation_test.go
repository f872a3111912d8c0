package services

import (
	"testing"
	"time"

	"rideadmin/internal/models"
)

func TestDailyRevenue_SumsSuccessfulPaymentsPerDay(t *testing.T) {
	payments := []*models.Payment{
		{ID: "p1", Amount: 1000, Status: models.PaymentStatusSuccessful, CreatedAt: day},
		{ID: "p2", Amount: 2000, Status: models.PaymentStatusSuccessful, CreatedAt: day.Add(3 * time.Hour)},
		{ID: "p3", Amount: 500, Status: models.PaymentStatusSuccessful, CreatedAt: day.Add(10 * time.Hour)},
		{ID: "p4", Amount: 9000, Status: "FAILED", CreatedAt: day},
	}

	// Re-delivering the same snapshot must give the same buckets.
	for i := 0; i < 2; i++ {
		daily, total := DailyRevenue(payments)
		if len(daily) != 1 || daily["2024-12-01"] != 3500 {
			t.Fatalf("expected one bucket of 3500, got %v", daily)
		}
		if total != 3500 {
			t.Fatalf("expected total 3500, got %v", total)
		}
	}
}

func TestTopDrivers_StableSortAndLimit(t *testing.T) {
	driver := func(id string, rides int) *models.Account {
		return &models.Account{ID: id, Role: models.RoleDriver, Name: "Driver " + id, Rides: rides}
	}

	accounts := []*models.Account{
		driver("a", 5),
		{ID: "c", Role: models.RoleClient, Rides: 100},
		driver("b", 20),
		driver("c2", 20),
		driver("d", 3),
	}

	top := TopDrivers(accounts, topDriverLimit)
	var ids []string
	for _, d := range top {
		ids = append(ids, d.ID)
	}
	expected := []string{"b", "c2", "a", "d"}
	if len(ids) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, ids)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, ids)
		}
	}

	many := make([]*models.Account, 0, 8)
	for i := 0; i < 8; i++ {
		many = append(many, driver(string(rune('a'+i)), i))
	}
	if got := len(TopDrivers(many, topDriverLimit)); got != 5 {
		t.Errorf("expected at most 5 drivers, got %d", got)
	}
}

func TestTopDrivers_Defaults(t *testing.T) {
	zero := 0.0
	top := TopDrivers([]*models.Account{
		{ID: "a", Role: models.RoleDriver},
		{ID: "b", Role: models.RoleDriver, Name: "Grace", Rating: &zero},
	}, topDriverLimit)

	if top[0].Name != "Unnamed" || top[0].Rating != 5 {
		t.Errorf("expected Unnamed with rating 5, got %+v", top[0])
	}
	if top[1].Rating != 5 {
		t.Errorf("expected zero rating to default to 5, got %v", top[1].Rating)
	}
}

func TestMergeDaily_UnionWithZeroDefaults(t *testing.T) {
	rides := map[string]int{"2024-12-02": 3, "2024-12-01": 1}
	revenue := map[string]float64{"2024-12-01": 1500, "2024-12-03": 700}

	points := MergeDaily(rides, revenue)
	expected := []models.DailyPoint{
		{Date: "2024-12-01", Rides: 1, Revenue: 1500},
		{Date: "2024-12-02", Rides: 3, Revenue: 0},
		{Date: "2024-12-03", Rides: 0, Revenue: 700},
	}
	if len(points) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(points))
	}
	for i := range expected {
		if points[i] != expected[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, expected[i], points[i])
		}
	}
}

func TestCumulativeRevenue(t *testing.T) {
	series := CumulativeRevenue([]models.DailyPoint{
		{Date: "2024-12-01", Revenue: 100},
		{Date: "2024-12-02", Revenue: 0},
		{Date: "2024-12-03", Revenue: 250},
	})
	want := []float64{100, 100, 350}
	for i, p := range series {
		if p.Cumulative != want[i] {
			t.Errorf("day %d: expected cumulative %v, got %v", i, want[i], p.Cumulative)
		}
	}
}

func TestRates(t *testing.T) {
	tests := []struct {
		name        string
		daily       []models.DailyPoint
		drivers     int
		revenue     string
		rides       int
		utilization string
	}{
		{
			name:        "no data",
			revenue:     "RWF 0",
			rides:       0,
			utilization: "0",
		},
		{
			name: "two days",
			daily: []models.DailyPoint{
				{Date: "2024-12-01", Rides: 3, Revenue: 3000},
				{Date: "2024-12-02", Rides: 2, Revenue: 1000},
			},
			drivers:     25,
			revenue:     "RWF 2000",
			rides:       3,
			utilization: "50.0",
		},
		{
			name:        "one driver",
			daily:       []models.DailyPoint{{Date: "2024-12-01", Rides: 1, Revenue: 10}},
			drivers:     1,
			revenue:     "RWF 10",
			rides:       1,
			utilization: "3.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := Rates(tt.daily, tt.drivers, "RWF")
			if rates.AverageDailyRevenue != tt.revenue {
				t.Errorf("expected revenue %q, got %q", tt.revenue, rates.AverageDailyRevenue)
			}
			if rates.AverageDailyRides != tt.rides {
				t.Errorf("expected rides %d, got %d", tt.rides, rates.AverageDailyRides)
			}
			if rates.DriverUtilization != tt.utilization {
				t.Errorf("expected utilization %q, got %q", tt.utilization, rates.DriverUtilization)
			}
		})
	}
}

func TestPerformance_FirstNameAndScaledRating(t *testing.T) {
	points := Performance([]models.TopDriver{{Name: "Grace Nakato", Rides: 12, Rating: 4.5}})
	if points[0].Name != "Grace" || points[0].Rides != 12 || points[0].Rating != 90 {
		t.Errorf("unexpected performance point: %+v", points[0])
	}
}

func TestStatusDistribution_FromBookingCounts(t *testing.T) {
	counts := countBookings([]*models.Booking{
		{Type: models.BookingTypeRide, Status: models.BookingStatusCompleted},
		{Type: models.BookingTypeRide, Status: models.BookingStatusCancelled},
		{Type: models.BookingTypeRental, Status: models.BookingStatusOngoing},
		{Type: models.BookingTypeRide, Status: models.BookingStatusOngoing},
		{Type: models.BookingTypeRide, Status: models.BookingStatusScheduled},
	})

	slices := StatusDistribution(counts)
	want := map[string]int{"Completed Rides": 5, "Active Rentals": 1, "Cancelled": 1, "Scheduled": 1}
	for _, s := range slices {
		if s.Value != want[s.Name] {
			t.Errorf("%s: expected %d, got %d", s.Name, want[s.Name], s.Value)
		}
	}
}

func TestFilterAccounts(t *testing.T) {
	accounts := []*models.Account{
		{ID: "1", Role: models.RoleDriver, Name: "Grace", Status: models.AccountStatusActive, LicenseNumber: "RAB123"},
		{ID: "2", Role: models.RoleDriver, Name: "Mike", Status: models.AccountStatusBanned, Email: "mike@example.com"},
		{ID: "3", Role: models.RoleDriver, Name: "Ann", Status: models.AccountStatusOffline, Phone: "+250788"},
	}

	tests := []struct {
		name     string
		filter   models.AccountFilter
		expected []string
	}{
		{"all", models.AccountFilter{Status: "all"}, []string{"1", "2", "3"}},
		{"empty", models.AccountFilter{}, []string{"1", "2", "3"}},
		{"status", models.AccountFilter{Status: "banned"}, []string{"2"}},
		{"license search", models.AccountFilter{Search: "rab1"}, []string{"1"}},
		{"email search", models.AccountFilter{Search: "MIKE@"}, []string{"2"}},
		{"phone and status", models.AccountFilter{Search: "+250", Status: "active"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAccounts(accounts, tt.filter)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %d accounts", tt.expected, len(got))
			}
			for i, a := range got {
				if a.ID != tt.expected[i] {
					t.Errorf("expected %v, got %s at %d", tt.expected, a.ID, i)
				}
			}
		})
	}
}

func TestValidateAccountFilter(t *testing.T) {
	if err := ValidateAccountFilter(models.RoleClient, models.AccountFilter{Status: "offline"}); err == nil {
		t.Error("expected offline to be rejected for clients")
	}
	if err := ValidateAccountFilter(models.RoleDriver, models.AccountFilter{Status: "offline"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
