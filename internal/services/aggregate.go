package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type streamKind int

const (
	streamAccounts streamKind = iota
	streamBookings
	streamPayments
	streamCount
)

// aggregateState is the merged result of the account, booking and payment
// streams. Each apply method owns a disjoint set of fields, so deliveries
// from different streams can interleave in any order.
type aggregateState struct {
	mu       sync.Mutex
	currency string
	seen     [streamCount]bool
	skipped  [streamCount]int

	// keyed by card title
	cards map[string]models.StatCard

	clients    int
	drivers    int
	topDrivers []models.TopDriver

	bookings   bookingCounts
	dailyRides map[string]int

	totalRevenue float64
	dailyRevenue map[string]float64
}

func newAggregateState(currency string) *aggregateState {
	return &aggregateState{
		currency:     currency,
		cards:        make(map[string]models.StatCard, len(models.CardOrder)),
		dailyRides:   make(map[string]int),
		dailyRevenue: make(map[string]float64),
	}
}

func statCard(title, value, change string) models.StatCard {
	return models.StatCard{
		Title:      title,
		Value:      value,
		Change:     change,
		ChangeType: "positive",
	}
}

func (s *aggregateState) applyAccounts(snap interfaces.Snapshot[*models.Account]) {
	clients, drivers := CountRoles(snap.Items)
	top := TopDrivers(snap.Items, topDriverLimit)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients, s.drivers, s.topDrivers = clients, drivers, top
	s.cards[models.CardTotalUsers] = statCard(models.CardTotalUsers, utils.FormatCount(clients), "+12% from last month")
	s.cards[models.CardActiveDrivers] = statCard(models.CardActiveDrivers, utils.FormatCount(drivers), "+8% from last month")
	s.seen[streamAccounts] = true
	s.skipped[streamAccounts] = snap.Skipped
}

func (s *aggregateState) applyBookings(snap interfaces.Snapshot[*models.Booking]) {
	counts := countBookings(snap.Items)
	daily := DailyRides(snap.Items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings, s.dailyRides = counts, daily
	s.cards[models.CardTotalRides] = statCard(models.CardTotalRides, utils.FormatCount(counts.total), "+15% from last month")
	s.seen[streamBookings] = true
	s.skipped[streamBookings] = snap.Skipped
}

func (s *aggregateState) applyPayments(snap interfaces.Snapshot[*models.Payment]) {
	daily, total := DailyRevenue(snap.Items)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dailyRevenue, s.totalRevenue = daily, total
	s.cards[models.CardRevenue] = statCard(models.CardRevenue, utils.FormatCurrency(total, s.currency), "+18% from last month")
	s.seen[streamPayments] = true
	s.skipped[streamPayments] = snap.Skipped
}

// ready reports whether every stream has delivered at least once.
func (s *aggregateState) ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seen := range s.seen {
		if !seen {
			return false
		}
	}
	return true
}

func (s *aggregateState) totalSkipped() int {
	n := 0
	for _, k := range s.skipped {
		n += k
	}
	return n
}

func (s *aggregateState) dashboard(now time.Time) *models.DashboardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]models.StatCard, 0, len(models.CardOrder))
	for _, title := range models.CardOrder {
		if card, ok := s.cards[title]; ok {
			cards = append(cards, card)
		}
	}

	return &models.DashboardSummary{
		Cards:        cards,
		Daily:        MergeDaily(s.dailyRides, s.dailyRevenue),
		TopDrivers:   append([]models.TopDriver(nil), s.topDrivers...),
		TotalRevenue: s.totalRevenue,
		Skipped:      s.totalSkipped(),
		UpdatedAt:    now,
	}
}

func (s *aggregateState) analytics(now time.Time) *models.AnalyticsReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	daily := MergeDaily(s.dailyRides, s.dailyRevenue)

	return &models.AnalyticsReport{
		ActiveUsers:        s.clients,
		ActiveDrivers:      s.drivers,
		TotalRides:         s.bookings.total,
		TotalRevenue:       s.totalRevenue,
		RevenueSeries:      CumulativeRevenue(daily),
		StatusDistribution: StatusDistribution(s.bookings),
		Performance:        Performance(s.topDrivers),
		Rates:              Rates(daily, s.drivers, s.currency),
		Skipped:            s.totalSkipped(),
		UpdatedAt:          now,
	}
}

// aggregateSources are the three collections behind the dashboard and the
// analytics view.
type aggregateSources struct {
	accounts interfaces.AccountRepository
	bookings interfaces.BookingRepository
	payments interfaces.PaymentRepository
	currency string
	now      func() time.Time
}

// openAggregate subscribes to all three streams concurrently and returns a
// view that emits project(state) once every stream has delivered, then on
// every change. If any subscription cannot be opened the others are stopped.
func openAggregate[T any](ctx context.Context, src aggregateSources, log *logger.Logger, project func(*aggregateState, time.Time) T) (*LiveView[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	var (
		accounts interfaces.Subscription[*models.Account]
		bookings interfaces.Subscription[*models.Booking]
		payments interfaces.Subscription[*models.Payment]
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		accounts, err = src.accounts.Subscribe(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		bookings, err = src.bookings.Subscribe(ctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = src.payments.SubscribeSuccessful(ctx)
		return err
	})

	release := func() {
		if accounts != nil {
			accounts.Stop()
		}
		if bookings != nil {
			bookings.Stop()
		}
		if payments != nil {
			payments.Stop()
		}
	}

	if err := g.Wait(); err != nil {
		cancel()
		release()
		return nil, fmt.Errorf("failed to open aggregate streams: %w", err)
	}

	now := src.now
	if now == nil {
		now = time.Now
	}

	state := newAggregateState(src.currency)
	view := newLiveView[T](cancel, release)
	view.run(func() error {
		accountUpdates := accounts.Updates()
		bookingUpdates := bookings.Updates()
		paymentUpdates := payments.Updates()

		for {
			select {
			case <-ctx.Done():
				return nil
			case snap, ok := <-accountUpdates:
				if !ok {
					return streamEnded(ctx, "accounts", accounts.Err())
				}
				state.applyAccounts(snap)
			case snap, ok := <-bookingUpdates:
				if !ok {
					return streamEnded(ctx, "bookings", bookings.Err())
				}
				state.applyBookings(snap)
			case snap, ok := <-paymentUpdates:
				if !ok {
					return streamEnded(ctx, "payments", payments.Err())
				}
				state.applyPayments(snap)
			}

			if state.ready() {
				view.publish(project(state, now()))
			}
		}
	})

	log.Debug("Aggregate streams opened")
	return view, nil
}
