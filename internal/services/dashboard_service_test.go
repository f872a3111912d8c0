package services

import (
	"context"
	"errors"
	"testing"

	"rideadmin/internal/models"
	"rideadmin/pkg/logger"
)

func seedAggregateData(r *testRepos) {
	r.putAccount("c1", "client", "Alice", "", nil)
	r.putAccount("c2", "client", "Bob", "banned", nil)
	r.putAccount("d1", "driver", "Grace Nakato", "active", map[string]interface{}{"rides": int64(5), "rating": 4.5})
	r.putAccount("d2", "driver", "Mike Johnson", "offline", map[string]interface{}{"rides": int64(20)})
	r.putAccount("a1", "admin", "Root", "", nil)

	r.putBooking("b1", map[string]interface{}{"type": "ride", "status": "completed", "createdAt": day})
	r.putBooking("b2", map[string]interface{}{"type": "rental", "status": "ongoing", "createdAt": day.AddDate(0, 0, 1)})

	r.putPayment("p1", 1000, "SUCCESSFUL", day)
	r.putPayment("p2", 2000, "SUCCESSFUL", day)
	r.putPayment("p3", 500, "SUCCESSFUL", day)
	r.putPayment("p4", 9000, "FAILED", day)
}

func TestDashboardService_Summary(t *testing.T) {
	repos := newTestRepos()
	seedAggregateData(repos)

	svc := NewDashboardService(repos.accounts, repos.bookings, repos.payments, "RWF", logger.NewNop())
	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedCards := map[string]string{
		models.CardTotalUsers:    "2",
		models.CardActiveDrivers: "2",
		models.CardTotalRides:    "2",
		models.CardRevenue:       "RWF 3,500",
	}
	if len(summary.Cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(summary.Cards))
	}
	for i, card := range summary.Cards {
		if card.Title != models.CardOrder[i] {
			t.Errorf("expected card %d to be %q, got %q", i, models.CardOrder[i], card.Title)
		}
		if card.Value != expectedCards[card.Title] {
			t.Errorf("%s: expected %q, got %q", card.Title, expectedCards[card.Title], card.Value)
		}
	}

	if summary.TotalRevenue != 3500 {
		t.Errorf("expected total revenue 3500, got %v", summary.TotalRevenue)
	}
	if len(summary.Daily) != 2 {
		t.Fatalf("expected 2 days, got %+v", summary.Daily)
	}
	if summary.Daily[0] != (models.DailyPoint{Date: "2024-12-01", Rides: 1, Revenue: 3500}) {
		t.Errorf("unexpected first day: %+v", summary.Daily[0])
	}
	if summary.Daily[1] != (models.DailyPoint{Date: "2024-12-02", Rides: 1, Revenue: 0}) {
		t.Errorf("unexpected second day: %+v", summary.Daily[1])
	}
	if len(summary.TopDrivers) != 2 || summary.TopDrivers[0].ID != "d2" {
		t.Errorf("expected d2 to lead top drivers, got %+v", summary.TopDrivers)
	}

	// Summary must release every subscription it opened.
	waitFor(t, func() bool { return repos.store.Watchers() == 0 })
}

func TestDashboardService_WatchRecomputesPerStream(t *testing.T) {
	repos := newTestRepos()
	seedAggregateData(repos)

	svc := NewDashboardService(repos.accounts, repos.bookings, repos.payments, "RWF", logger.NewNop())
	view, err := svc.Watch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer view.Close()

	first := next(t, view.Updates())
	if first.TotalRevenue != 3500 {
		t.Fatalf("expected 3500, got %v", first.TotalRevenue)
	}

	repos.putPayment("p5", 1500, "SUCCESSFUL", day.AddDate(0, 0, 1))

	var latest *models.DashboardSummary
	waitFor(t, func() bool {
		select {
		case latest = <-view.Updates():
		default:
		}
		return latest != nil && latest.TotalRevenue == 5000
	})

	// The payment stream must not disturb account-derived cards.
	if latest.Cards[0].Value != "2" || latest.Daily[1].Revenue != 1500 || latest.Daily[1].Rides != 1 {
		t.Errorf("unexpected summary after payment: %+v", latest)
	}

	view.Close()
	if repos.store.Watchers() != 0 {
		t.Errorf("expected all subscriptions released, got %d", repos.store.Watchers())
	}
	if _, ok := <-view.Updates(); ok {
		t.Error("expected updates to be closed")
	}
	if view.Err() != nil {
		t.Errorf("expected no error after Close, got %v", view.Err())
	}
}

func TestDashboardService_OpenFailureReleasesOthers(t *testing.T) {
	repos := newTestRepos()
	boom := errors.New("permission denied")

	svc := NewDashboardService(repos.accounts, repos.bookings, &failingPaymentRepo{err: boom}, "RWF", logger.NewNop())
	if _, err := svc.Summary(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	waitFor(t, func() bool { return repos.store.Watchers() == 0 })
}

func TestDashboardService_StoreCloseEndsView(t *testing.T) {
	repos := newTestRepos()
	seedAggregateData(repos)

	svc := NewDashboardService(repos.accounts, repos.bookings, repos.payments, "RWF", logger.NewNop())
	view, err := svc.Watch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next(t, view.Updates())

	repos.store.Close()

	<-view.Done()
	if view.Err() == nil {
		t.Error("expected an error when the store goes away")
	}
}

func TestAnalyticsService_Report(t *testing.T) {
	repos := newTestRepos()
	seedAggregateData(repos)
	repos.putBooking("b3", map[string]interface{}{"type": "ride", "status": "cancelled", "createdAt": day})

	svc := NewAnalyticsService(repos.accounts, repos.bookings, repos.payments, "RWF", logger.NewNop())
	report, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.ActiveUsers != 2 || report.ActiveDrivers != 2 || report.TotalRides != 3 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if len(report.RevenueSeries) != 2 || report.RevenueSeries[1].Cumulative != 3500 {
		t.Errorf("unexpected revenue series: %+v", report.RevenueSeries)
	}

	distribution := map[string]int{}
	for _, s := range report.StatusDistribution {
		distribution[s.Name] = s.Value
	}
	if distribution["Completed Rides"] != 3 || distribution["Active Rentals"] != 1 || distribution["Cancelled"] != 1 {
		t.Errorf("unexpected distribution: %v", distribution)
	}

	if report.Performance[0].Name != "Mike" || report.Performance[0].Rating != 100 {
		t.Errorf("unexpected performance: %+v", report.Performance)
	}
	if report.Performance[1].Name != "Grace" || report.Performance[1].Rating != 90 {
		t.Errorf("unexpected performance: %+v", report.Performance)
	}

	if report.Rates.AverageDailyRevenue != "RWF 1750" || report.Rates.AverageDailyRides != 2 || report.Rates.DriverUtilization != "7.4" {
		t.Errorf("unexpected rates: %+v", report.Rates)
	}
}
