package models

import (
	"fmt"
	"time"
)

type ReportSeverity string

const (
	ReportSeverityLow    ReportSeverity = "low"
	ReportSeverityMedium ReportSeverity = "medium"
	ReportSeverityHigh   ReportSeverity = "high"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

type ReportedType string

const (
	ReportedTypeUser   ReportedType = "user"
	ReportedTypeDriver ReportedType = "driver"
)

func ParseReportStatus(raw string) (ReportStatus, error) {
	switch ReportStatus(raw) {
	case ReportStatusPending, ReportStatusResolved, ReportStatusDismissed:
		return ReportStatus(raw), nil
	default:
		return "", fmt.Errorf("%w: report status %q", ErrInvalidEnum, raw)
	}
}

func ParseReportedType(raw string) (ReportedType, error) {
	switch ReportedType(raw) {
	case ReportedTypeUser, ReportedTypeDriver:
		return ReportedType(raw), nil
	default:
		return "", fmt.Errorf("%w: reported type %q", ErrInvalidEnum, raw)
	}
}

type Report struct {
	ID           string         `json:"id"`
	ReporterID   string         `json:"reporter_id"`
	ReporterName string         `json:"reporter_name"`
	ReportedID   string         `json:"reported_id"`
	ReportedName string         `json:"reported_name"`
	ReportedType ReportedType   `json:"reported_type"`
	Reason       string         `json:"reason"`
	Description  string         `json:"description"`
	Status       ReportStatus   `json:"status"`
	Severity     ReportSeverity `json:"severity"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ReportFilter struct {
	Search string `json:"search" form:"search"`
	Status string `json:"status" form:"status"`
	Type   string `json:"type" form:"type"`
}

// ReportList header counts cover every report, not just the filtered ones.
type ReportList struct {
	Filter       ReportFilter `json:"filter"`
	Reports      []*Report    `json:"reports"`
	Total        int          `json:"total"`
	Pending      int          `json:"pending"`
	HighPriority int          `json:"high_priority"`
}

type ReportStatusRequest struct {
	Status string `json:"status" binding:"required,report_status"`
}
