package interfaces

import (
	"context"

	"rideadmin/internal/models"
)

type BookingRepository interface {
	Subscribe(ctx context.Context) (Subscription[*models.Booking], error)
	// List reads every booking once. The int is the number of undecodable records.
	List(ctx context.Context) ([]*models.Booking, int, error)
	CountByClient(ctx context.Context, clientKey string) (int, error)
	CountByDriver(ctx context.Context, driverID string) (int, error)
}

type PaymentRepository interface {
	SubscribeSuccessful(ctx context.Context) (Subscription[*models.Payment], error)
}
