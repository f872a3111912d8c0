package services

import (
	"context"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/logger"
)

type AnalyticsService interface {
	Report(ctx context.Context) (*models.AnalyticsReport, error)
	Watch(ctx context.Context) (*LiveView[*models.AnalyticsReport], error)
}

type analyticsService struct {
	sources aggregateSources
	logger  *logger.Logger
}

func NewAnalyticsService(
	accountRepo interfaces.AccountRepository,
	bookingRepo interfaces.BookingRepository,
	paymentRepo interfaces.PaymentRepository,
	currency string,
	log *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		sources: aggregateSources{
			accounts: accountRepo,
			bookings: bookingRepo,
			payments: paymentRepo,
			currency: currency,
		},
		logger: log.WithComponent("analytics"),
	}
}

func (s *analyticsService) Report(ctx context.Context) (*models.AnalyticsReport, error) {
	view, err := s.Watch(ctx)
	if err != nil {
		return nil, err
	}
	return firstValue(ctx, view)
}

func (s *analyticsService) Watch(ctx context.Context) (*LiveView[*models.AnalyticsReport], error) {
	return openAggregate(ctx, s.sources, s.logger, func(state *aggregateState, now time.Time) *models.AnalyticsReport {
		return state.analytics(now)
	})
}
