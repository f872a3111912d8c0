package models

import "time"

const (
	CardTotalUsers    = "Total Users"
	CardActiveDrivers = "Active Drivers"
	CardTotalRides    = "Total Rides"
	CardRevenue       = "Revenue"
)

// CardOrder is the display order of the summary cards.
var CardOrder = []string{CardTotalUsers, CardActiveDrivers, CardTotalRides, CardRevenue}

type StatCard struct {
	Title      string `json:"title"`
	Value      string `json:"value"`
	Change     string `json:"change"`
	ChangeType string `json:"change_type"`
}

type DailyPoint struct {
	Date    string  `json:"date"`
	Rides   int     `json:"rides"`
	Revenue float64 `json:"revenue"`
}

type TopDriver struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rides  int     `json:"rides"`
	Rating float64 `json:"rating"`
}

type DashboardSummary struct {
	Cards        []StatCard   `json:"cards"`
	Daily        []DailyPoint `json:"daily"`
	TopDrivers   []TopDriver  `json:"top_drivers"`
	TotalRevenue float64      `json:"total_revenue"`
	Skipped      int          `json:"skipped"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type RevenuePoint struct {
	Date       string  `json:"date"`
	Rides      int     `json:"rides"`
	Revenue    float64 `json:"revenue"`
	Cumulative float64 `json:"cumulative"`
}

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type PerformancePoint struct {
	Name   string  `json:"name"`
	Rides  int     `json:"rides"`
	Rating float64 `json:"rating"`
}

type AnalyticsRates struct {
	AverageDailyRevenue string `json:"average_daily_revenue"`
	AverageDailyRides   int    `json:"average_daily_rides"`
	DriverUtilization   string `json:"driver_utilization"`
}

type AnalyticsReport struct {
	ActiveUsers        int                `json:"active_users"`
	ActiveDrivers      int                `json:"active_drivers"`
	TotalRides         int                `json:"total_rides"`
	TotalRevenue       float64            `json:"total_revenue"`
	RevenueSeries      []RevenuePoint     `json:"revenue_series"`
	StatusDistribution []StatusSlice      `json:"status_distribution"`
	Performance        []PerformancePoint `json:"performance"`
	Rates              AnalyticsRates     `json:"rates"`
	Skipped            int                `json:"skipped"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
