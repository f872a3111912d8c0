package documents

import (
	"context"
	"fmt"
	"strings"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/logger"
)

const (
	BookingsCollection = "bookings"
	PaymentsCollection = "payments"
)

type bookingRepository struct {
	store  docstore.Store
	logger *logger.Logger
}

func NewBookingRepository(store docstore.Store, log *logger.Logger) interfaces.BookingRepository {
	return &bookingRepository{
		store:  store,
		logger: log.WithField("collection", BookingsCollection),
	}
}

func (r *bookingRepository) Subscribe(ctx context.Context) (interfaces.Subscription[*models.Booking], error) {
	sub, err := r.store.Subscribe(ctx, BookingsCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to bookings: %w", err)
	}

	return newDecodedSubscription(sub, decodeBooking, r.logger), nil
}

func (r *bookingRepository) List(ctx context.Context) ([]*models.Booking, int, error) {
	docs, err := r.store.GetAll(ctx, BookingsCollection)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	snapshot := decodeAll(docs, decodeBooking, r.logger)
	return snapshot.Items, snapshot.Skipped, nil
}

func (r *bookingRepository) CountByClient(ctx context.Context, clientKey string) (int, error) {
	return r.countBy(ctx, "clientId", clientKey)
}

func (r *bookingRepository) CountByDriver(ctx context.Context, driverID string) (int, error) {
	return r.countBy(ctx, "driverId", driverID)
}

func (r *bookingRepository) countBy(ctx context.Context, field, value string) (int, error) {
	docs, err := r.store.GetAll(ctx, BookingsCollection, docstore.Eq(field, value))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by %s: %w", field, err)
	}
	return len(docs), nil
}

func decodeBooking(doc docstore.Document) (*models.Booking, error) {
	var record bookingRecord
	if err := dataTo(doc, &record); err != nil {
		return nil, err
	}

	bookingType, err := models.ParseBookingType(record.Type)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", doc.ID, err)
	}

	status, err := models.ParseBookingStatus(record.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", doc.ID, err)
	}

	booking := &models.Booking{
		ID:                 doc.ID,
		ClientID:           strings.TrimSpace(record.ClientID),
		DriverID:           strings.TrimSpace(record.DriverID),
		Type:               bookingType,
		PickupAddress:      record.Pickup.address(),
		DestinationAddress: record.Destination.address(),
		Status:             status,
		Amount:             record.Amount,
		Distance:           record.Distance,
	}
	if !record.CreatedAt.IsZero() {
		booking.CreatedAt = record.CreatedAt.UTC()
	}

	return booking, nil
}

type paymentRepository struct {
	store  docstore.Store
	logger *logger.Logger
}

func NewPaymentRepository(store docstore.Store, log *logger.Logger) interfaces.PaymentRepository {
	return &paymentRepository{
		store:  store,
		logger: log.WithField("collection", PaymentsCollection),
	}
}

func (r *paymentRepository) SubscribeSuccessful(ctx context.Context) (interfaces.Subscription[*models.Payment], error) {
	sub, err := r.store.Subscribe(ctx, PaymentsCollection, docstore.Eq("status", string(models.PaymentStatusSuccessful)))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to payments: %w", err)
	}

	return newDecodedSubscription(sub, decodePayment, r.logger), nil
}

func decodePayment(doc docstore.Document) (*models.Payment, error) {
	var record paymentRecord
	if err := dataTo(doc, &record); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:     doc.ID,
		Amount: record.Amount,
		Status: models.PaymentStatus(strings.TrimSpace(record.Status)),
	}
	if !record.CreatedAt.IsZero() {
		payment.CreatedAt = record.CreatedAt.UTC()
	}
	return payment, nil
}
