package services

import (
	"context"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/logger"
)

type DashboardService interface {
	// Summary computes the overview once from short-lived subscriptions.
	Summary(ctx context.Context) (*models.DashboardSummary, error)
	// Watch keeps the subscriptions open. The caller must Close the view.
	Watch(ctx context.Context) (*LiveView[*models.DashboardSummary], error)
}

type dashboardService struct {
	sources aggregateSources
	logger  *logger.Logger
}

func NewDashboardService(
	accountRepo interfaces.AccountRepository,
	bookingRepo interfaces.BookingRepository,
	paymentRepo interfaces.PaymentRepository,
	currency string,
	log *logger.Logger,
) DashboardService {
	return &dashboardService{
		sources: aggregateSources{
			accounts: accountRepo,
			bookings: bookingRepo,
			payments: paymentRepo,
			currency: currency,
		},
		logger: log.WithComponent("dashboard"),
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	view, err := s.Watch(ctx)
	if err != nil {
		return nil, err
	}
	return firstValue(ctx, view)
}

func (s *dashboardService) Watch(ctx context.Context) (*LiveView[*models.DashboardSummary], error) {
	return openAggregate(ctx, s.sources, s.logger, func(state *aggregateState, now time.Time) *models.DashboardSummary {
		return state.dashboard(now)
	})
}
