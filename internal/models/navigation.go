package models

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabUsers     Tab = "users"
	TabDrivers   Tab = "drivers"
	TabRides     Tab = "rides"
	TabAnalytics Tab = "analytics"
	TabReports   Tab = "reports"
)

// Tabs in sidebar order.
var Tabs = []Tab{TabDashboard, TabUsers, TabDrivers, TabRides, TabAnalytics, TabReports}

// ResolveTab returns the tab named by raw, or the dashboard when raw is not
// one of the six known identifiers.
func ResolveTab(raw string) (Tab, bool) {
	switch Tab(raw) {
	case TabDashboard, TabUsers, TabDrivers, TabRides, TabAnalytics, TabReports:
		return Tab(raw), true
	default:
		return TabDashboard, false
	}
}

func (t Tab) Title() string {
	switch t {
	case TabDashboard:
		return "Dashboard Overview"
	case TabUsers:
		return "User Management"
	case TabDrivers:
		return "Driver Management"
	case TabRides:
		return "Rides"
	case TabAnalytics:
		return "Analytics"
	case TabReports:
		return "Reports & Flags"
	default:
		return "Dashboard"
	}
}

type TabInfo struct {
	ID     Tab    `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

type ShellState struct {
	ActiveTab   Tab       `json:"active_tab"`
	Title       string    `json:"title"`
	SidebarOpen bool      `json:"sidebar_open"`
	Tabs        []TabInfo `json:"tabs"`
}

type SelectTabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

type SidebarRequest struct {
	Open *bool `json:"open" binding:"required"`
}
