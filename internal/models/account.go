package models

import (
	"strings"
	"time"
)

const (
	DefaultDriverRating = 5.0
	UnnamedAccount      = "Unnamed"
)

// Account is a users collection record: a client, a driver or an admin.
type Account struct {
	ID              string            `json:"id"`
	Role            Role              `json:"role"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	ProfileImageURL string            `json:"profile_image_url,omitempty"`
	Status          AccountStatus     `json:"status"`
	Rating          *float64          `json:"rating,omitempty"`
	Rides           int               `json:"rides"`
	LicenseNumber   string            `json:"license_number,omitempty"`
	VehicleType     string            `json:"vehicle_type,omitempty"`
	Documents       map[string]string `json:"documents,omitempty"`
	ClientID        string            `json:"client_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// BookingKey is the value bookings use to reference this account.
func (a *Account) BookingKey() string {
	if a.Role == RoleClient && a.ClientID != "" {
		return a.ClientID
	}
	return a.ID
}

func (a *Account) DisplayName() string {
	if strings.TrimSpace(a.Name) == "" {
		return UnnamedAccount
	}
	return a.Name
}

func (a *Account) FirstName() string {
	fields := strings.Fields(a.DisplayName())
	return fields[0]
}

func (a *Account) RatingOrDefault() float64 {
	if a.Rating == nil || *a.Rating == 0 {
		return DefaultDriverRating
	}
	return *a.Rating
}

// Clone returns a copy that shares no mutable state with a.
func (a *Account) Clone() *Account {
	c := *a
	if a.Rating != nil {
		r := *a.Rating
		c.Rating = &r
	}
	if a.Documents != nil {
		c.Documents = make(map[string]string, len(a.Documents))
		for k, v := range a.Documents {
			c.Documents[k] = v
		}
	}
	return &c
}

type AccountFilter struct {
	Search string `json:"search" form:"search"`
	Status string `json:"status" form:"status"`
}

// AccountRow is one line of a management table.
type AccountRow struct {
	*Account
	TotalRides     int             `json:"total_rides"`
	AllowedActions []AccountStatus `json:"allowed_actions"`
}

type AccountList struct {
	Role    Role          `json:"role"`
	Filter  AccountFilter `json:"filter"`
	Rows    []*AccountRow `json:"rows"`
	Total   int           `json:"total"`
	Skipped int           `json:"skipped"`
}

type DriverDocument struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}
