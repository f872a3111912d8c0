package models

import "time"

const (
	UnknownUser        = "Unknown User"
	UnknownDriver      = "Unknown Driver"
	UnknownPickup      = "Unknown Pickup"
	UnknownDestination = "Unknown Destination"
	UnknownDistance    = "N/A"
)

// RideRow is a booking of type ride with participant names resolved.
type RideRow struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	UserName   string        `json:"user_name"`
	DriverID   string        `json:"driver_id"`
	DriverName string        `json:"driver_name"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Status     BookingStatus `json:"status"`
	Fare       float64       `json:"fare"`
	Distance   string        `json:"distance"`
	CreatedAt  time.Time     `json:"created_at"`
}

type RideFilter struct {
	Search string `json:"search" form:"search"`
	Status string `json:"status" form:"status"`
}

type RideList struct {
	Filter    RideFilter `json:"filter"`
	Rows      []*RideRow `json:"rows"`
	Total     int        `json:"total"`
	Ongoing   int        `json:"ongoing"`
	Completed int        `json:"completed"`
	Skipped   int        `json:"skipped"`
}
