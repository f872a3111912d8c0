package services

import (
	"context"
	"errors"
	"testing"

	"rideadmin/internal/models"
	"rideadmin/pkg/logger"
)

func TestReportService_Filter(t *testing.T) {
	svc := NewReportService(SampleReports(), logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		name     string
		filter   models.ReportFilter
		expected []string
	}{
		{"all", models.ReportFilter{Status: "all", Type: "all"}, []string{"1", "2"}},
		{"pending", models.ReportFilter{Status: "pending"}, []string{"1"}},
		{"user type", models.ReportFilter{Type: "user"}, []string{"2"}},
		{"search reporter", models.ReportFilter{Search: "peter"}, []string{"2"}},
		{"search reason", models.ReportFilter{Search: "RECKLESS"}, []string{"1"}},
		{"combined miss", models.ReportFilter{Search: "reckless", Type: "user"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if list.Total != 2 || list.Pending != 1 || list.HighPriority != 1 {
				t.Errorf("unexpected header counts: %+v", list)
			}
			if len(list.Reports) != len(tt.expected) {
				t.Fatalf("expected %v, got %d reports", tt.expected, len(list.Reports))
			}
			for i, r := range list.Reports {
				if r.ID != tt.expected[i] {
					t.Errorf("expected %v, got %s at %d", tt.expected, r.ID, i)
				}
			}
		})
	}

	if _, err := svc.List(ctx, models.ReportFilter{Type: "vehicle"}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestReportService_GetCarriesParties(t *testing.T) {
	svc := NewReportService(SampleReports(), logger.NewNop())

	report, err := svc.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ReporterID != "1" || report.ReportedID != "2" || report.ReportedName != "Grace Nakato" {
		t.Errorf("unexpected parties: %+v", report)
	}
}

func TestReportService_UpdateStatus(t *testing.T) {
	svc := NewReportService(SampleReports(), logger.NewNop())
	ctx := context.Background()

	report, err := svc.UpdateStatus(ctx, "admin-1", "1", "dismissed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != models.ReportStatusDismissed {
		t.Errorf("expected dismissed, got %q", report.Status)
	}

	stored, err := svc.Get(ctx, "1")
	if err != nil || stored.Status != models.ReportStatusDismissed {
		t.Errorf("expected change to be kept in memory, got %+v (%v)", stored, err)
	}

	if _, err := svc.UpdateStatus(ctx, "admin-1", "99", "resolved"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "admin-1", "1", "escalated"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	// A fresh service starts from the sample data again.
	fresh := NewReportService(SampleReports(), logger.NewNop())
	if r, _ := fresh.Get(ctx, "1"); r.Status != models.ReportStatusPending {
		t.Errorf("expected sample data to be untouched, got %q", r.Status)
	}
}
