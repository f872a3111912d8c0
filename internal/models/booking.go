package models

import (
	"fmt"
	"strings"
	"time"
)

type BookingType string

const (
	// BookingTypeUnspecified marks records stored without a type.
	BookingTypeUnspecified BookingType = ""
	BookingTypeRide        BookingType = "ride"
	BookingTypeRental      BookingType = "rental"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusScheduled,
	BookingStatusOngoing,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

func ParseBookingType(raw string) (BookingType, error) {
	switch BookingType(strings.TrimSpace(raw)) {
	case BookingTypeUnspecified:
		return BookingTypeUnspecified, nil
	case BookingTypeRide:
		return BookingTypeRide, nil
	case BookingTypeRental:
		return BookingTypeRental, nil
	default:
		return "", fmt.Errorf("%w: booking type %q", ErrInvalidEnum, raw)
	}
}

// ParseBookingStatus maps an empty value to pending.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BookingStatusPending, nil
	}
	for _, s := range BookingStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: booking status %q", ErrInvalidEnum, raw)
}

type Booking struct {
	ID                 string        `json:"id"`
	ClientID           string        `json:"client_id"`
	DriverID           string        `json:"driver_id"`
	Type               BookingType   `json:"type"`
	PickupAddress      string        `json:"pickup_address"`
	DestinationAddress string        `json:"destination_address"`
	Status             BookingStatus `json:"status"`
	Amount             float64       `json:"amount"`
	Distance           *float64      `json:"distance,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

// Day returns the UTC calendar date of the booking, or false when the record
// has no timestamp.
func (b *Booking) Day() (string, bool) {
	return DayKey(b.CreatedAt)
}

// DayKey truncates t to its UTC calendar date in YYYY-MM-DD form.
func DayKey(t time.Time) (string, bool) {
	if t.IsZero() {
		return "", false
	}
	return t.UTC().Format("2006-01-02"), true
}
