package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"rideadmin/internal/models"
	"rideadmin/internal/utils"
)

const (
	topDriverLimit = 5

	// Fixed offset added to the driver count when computing utilization.
	utilizationOffset = 25
)

// CountRoles counts client and driver accounts. Admins are not counted.
func CountRoles(accounts []*models.Account) (clients, drivers int) {
	for _, a := range accounts {
		switch a.Role {
		case models.RoleClient:
			clients++
		case models.RoleDriver:
			drivers++
		case models.RoleAdmin:
		}
	}
	return clients, drivers
}

// TopDrivers ranks drivers by their stored ride counter. Drivers with equal
// counts keep their stream order.
func TopDrivers(accounts []*models.Account, limit int) []models.TopDriver {
	drivers := make([]models.TopDriver, 0, len(accounts))
	for _, a := range accounts {
		if a.Role != models.RoleDriver {
			continue
		}
		drivers = append(drivers, models.TopDriver{
			ID:     a.ID,
			Name:   a.DisplayName(),
			Rides:  a.Rides,
			Rating: a.RatingOrDefault(),
		})
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Rides > drivers[j].Rides
	})

	if len(drivers) > limit {
		drivers = drivers[:limit]
	}
	return drivers
}

// DailyRides counts bookings per UTC calendar day. Bookings without a
// timestamp are left out.
func DailyRides(bookings []*models.Booking) map[string]int {
	daily := make(map[string]int)
	for _, b := range bookings {
		if day, ok := b.Day(); ok {
			daily[day]++
		}
	}
	return daily
}

// DailyRevenue sums successful payments per UTC calendar day. The total
// includes successful payments without a timestamp.
func DailyRevenue(payments []*models.Payment) (map[string]float64, float64) {
	daily := make(map[string]float64)
	var total float64
	for _, p := range payments {
		if !p.IsSuccessful() {
			continue
		}
		total += p.Amount
		if day, ok := models.DayKey(p.CreatedAt); ok {
			daily[day] += p.Amount
		}
	}
	return daily, total
}

// MergeDaily joins ride counts and revenue by date key. Every date present in
// either input appears once, in ascending order, with zero for the side that
// has no entry.
func MergeDaily(rides map[string]int, revenue map[string]float64) []models.DailyPoint {
	dates := make([]string, 0, len(rides)+len(revenue))
	for d := range rides {
		dates = append(dates, d)
	}
	for d := range revenue {
		if _, ok := rides[d]; !ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	points := make([]models.DailyPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, models.DailyPoint{
			Date:    d,
			Rides:   rides[d],
			Revenue: revenue[d],
		})
	}
	return points
}

func CumulativeRevenue(daily []models.DailyPoint) []models.RevenuePoint {
	series := make([]models.RevenuePoint, 0, len(daily))
	var running float64
	for _, d := range daily {
		running += d.Revenue
		series = append(series, models.RevenuePoint{
			Date:       d.Date,
			Rides:      d.Rides,
			Revenue:    d.Revenue,
			Cumulative: running,
		})
	}
	return series
}

type bookingCounts struct {
	total         int
	cancelled     int
	scheduled     int
	activeRentals int
}

func countBookings(bookings []*models.Booking) bookingCounts {
	counts := bookingCounts{total: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingStatusCancelled:
			counts.cancelled++
		case models.BookingStatusScheduled:
			counts.scheduled++
		case models.BookingStatusOngoing:
			if b.Type == models.BookingTypeRental {
				counts.activeRentals++
			}
		case models.BookingStatusPending, models.BookingStatusCompleted:
		}
	}
	return counts
}

func StatusDistribution(counts bookingCounts) []models.StatusSlice {
	return []models.StatusSlice{
		{Name: "Completed Rides", Value: counts.total, Color: "#10B981"},
		{Name: "Active Rentals", Value: counts.activeRentals, Color: "#F59E0B"},
		{Name: "Cancelled", Value: counts.cancelled, Color: "#EF4444"},
		{Name: "Scheduled", Value: counts.scheduled, Color: "#8B5CF6"},
	}
}

// Performance scales ratings by 20 so they share an axis with ride counts.
func Performance(top []models.TopDriver) []models.PerformancePoint {
	points := make([]models.PerformancePoint, 0, len(top))
	for _, d := range top {
		name := d.Name
		if fields := strings.Fields(name); len(fields) > 0 {
			name = fields[0]
		}
		points = append(points, models.PerformancePoint{
			Name:   name,
			Rides:  d.Rides,
			Rating: d.Rating * 20,
		})
	}
	return points
}

// Rates derives the analytics summary figures from the daily series.
func Rates(daily []models.DailyPoint, drivers int, currency string) models.AnalyticsRates {
	var avgRevenue, avgRides float64
	if n := len(daily); n > 0 {
		var revenue float64
		var rides int
		for _, d := range daily {
			revenue += d.Revenue
			rides += d.Rides
		}
		avgRevenue = revenue / float64(n)
		avgRides = float64(rides) / float64(n)
	}

	utilization := "0"
	if drivers > 0 {
		utilization = strconv.FormatFloat(float64(drivers)/float64(drivers+utilizationOffset)*100, 'f', 1, 64)
	}

	return models.AnalyticsRates{
		AverageDailyRevenue: utils.FormatWholeCurrency(avgRevenue, currency),
		AverageDailyRides:   int(math.Round(avgRides)),
		DriverUtilization:   utilization,
	}
}
