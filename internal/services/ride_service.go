package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type RideService interface {
	List(ctx context.Context, filter models.RideFilter) (*models.RideList, error)
}

type rideService struct {
	bookingRepo interfaces.BookingRepository
	accountRepo interfaces.AccountRepository
	logger      *logger.Logger
}

func NewRideService(bookingRepo interfaces.BookingRepository, accountRepo interfaces.AccountRepository, log *logger.Logger) RideService {
	return &rideService{
		bookingRepo: bookingRepo,
		accountRepo: accountRepo,
		logger:      log.WithComponent("rides"),
	}
}

// List reads bookings once, keeps rides, and resolves rider and driver names
// with one lookup each. Header counts cover every ride, not just the
// filtered ones.
func (s *rideService) List(ctx context.Context, filter models.RideFilter) (*models.RideList, error) {
	if err := ValidateRideFilter(filter); err != nil {
		return nil, err
	}

	bookings, skipped, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	rides := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Type == models.BookingTypeRide {
			rides = append(rides, b)
		}
	}

	rows := make([]*models.RideRow, len(rides))
	lookup := newNameLookup(s.accountRepo)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.MaxConcurrentLookups)
	for i, ride := range rides {
		g.Go(func() error {
			userName, err := lookup.name(gctx, ride.ClientID, models.UnknownUser)
			if err != nil {
				return err
			}
			driverName, err := lookup.name(gctx, ride.DriverID, models.UnknownDriver)
			if err != nil {
				return err
			}
			rows[i] = rideRow(ride, userName, driverName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve ride participants: %w", err)
	}

	list := &models.RideList{
		Filter:  filter,
		Rows:    FilterRides(rows, filter),
		Total:   len(rows),
		Skipped: skipped,
	}
	for _, r := range rows {
		switch r.Status {
		case models.BookingStatusOngoing:
			list.Ongoing++
		case models.BookingStatusCompleted:
			list.Completed++
		case models.BookingStatusPending, models.BookingStatusScheduled, models.BookingStatusCancelled:
		}
	}

	if skipped > 0 {
		s.logger.WithField("skipped", skipped).Warn("Some bookings could not be decoded")
	}

	return list, nil
}

func rideRow(b *models.Booking, userName, driverName string) *models.RideRow {
	from := b.PickupAddress
	if from == "" {
		from = models.UnknownPickup
	}
	to := b.DestinationAddress
	if to == "" {
		to = models.UnknownDestination
	}

	return &models.RideRow{
		ID:         b.ID,
		UserID:     b.ClientID,
		UserName:   userName,
		DriverID:   b.DriverID,
		DriverName: driverName,
		From:       from,
		To:         to,
		Status:     b.Status,
		Fare:       b.Amount,
		Distance:   utils.FormatDistance(b.Distance),
		CreatedAt:  b.CreatedAt,
	}
}

func ValidateRideFilter(filter models.RideFilter) error {
	if filter.Status == "" || filter.Status == utils.FilterAll {
		return nil
	}
	if _, err := models.ParseBookingStatus(filter.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return nil
}

// FilterRides matches the search against rider, driver and both addresses.
func FilterRides(rows []*models.RideRow, filter models.RideFilter) []*models.RideRow {
	out := make([]*models.RideRow, 0, len(rows))
	for _, r := range rows {
		if filter.Status != "" && filter.Status != utils.FilterAll && string(r.Status) != filter.Status {
			continue
		}
		if !utils.MatchesAny(filter.Search, r.UserName, r.DriverName, r.From, r.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// nameLookup resolves account names, sharing one lookup per id across the
// rows of a single listing.
type nameLookup struct {
	repo  interfaces.AccountRepository
	mu    sync.Mutex
	calls map[string]*nameCall
}

type nameCall struct {
	done chan struct{}
	name string
	err  error
}

func newNameLookup(repo interfaces.AccountRepository) *nameLookup {
	return &nameLookup{repo: repo, calls: make(map[string]*nameCall)}
}

func (l *nameLookup) name(ctx context.Context, id, placeholder string) (string, error) {
	if id == "" {
		return placeholder, nil
	}

	l.mu.Lock()
	call, ok := l.calls[id]
	if !ok {
		call = &nameCall{done: make(chan struct{})}
		l.calls[id] = call
	}
	l.mu.Unlock()

	if !ok {
		account, err := l.repo.GetByID(ctx, id)
		switch {
		case err == nil:
			call.name = account.Name
		case errors.Is(err, interfaces.ErrNotFound), errors.Is(err, interfaces.ErrInvalidRecord):
		default:
			call.err = err
		}
		close(call.done)
	}

	select {
	case <-call.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if call.err != nil {
		return "", call.err
	}
	if call.name == "" {
		return placeholder, nil
	}
	return call.name, nil
}
