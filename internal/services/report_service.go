package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"
)

// ReportService triages misconduct reports. Reports are held in process
// memory only and status changes are not persisted.
type ReportService interface {
	List(ctx context.Context, filter models.ReportFilter) (*models.ReportList, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	UpdateStatus(ctx context.Context, adminID, id, status string) (*models.Report, error)
}

type reportService struct {
	mu      sync.RWMutex
	reports []*models.Report
	logger  *logger.Logger
}

func NewReportService(seed []*models.Report, log *logger.Logger) ReportService {
	reports := make([]*models.Report, 0, len(seed))
	for _, r := range seed {
		c := *r
		reports = append(reports, &c)
	}

	return &reportService{
		reports: reports,
		logger:  log.WithComponent("reports"),
	}
}

// SampleReports is the data the reports screen starts with.
func SampleReports() []*models.Report {
	return []*models.Report{
		{
			ID:           "1",
			ReporterID:   "1",
			ReporterName: "John Doe",
			ReportedID:   "2",
			ReportedName: "Grace Nakato",
			ReportedType: models.ReportedTypeDriver,
			Reason:       "Reckless driving",
			Description:  "Driver was speeding and not following traffic rules",
			Status:       models.ReportStatusPending,
			Severity:     models.ReportSeverityHigh,
			CreatedAt:    time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           "2",
			ReporterID:   "3",
			ReporterName: "Peter Ssemakula",
			ReportedID:   "3",
			ReportedName: "Mike Johnson",
			ReportedType: models.ReportedTypeUser,
			Reason:       "Inappropriate behavior",
			Description:  "User was rude and abusive during the ride",
			Status:       models.ReportStatusResolved,
			Severity:     models.ReportSeverityMedium,
			CreatedAt:    time.Date(2024, 11, 28, 15, 30, 0, 0, time.UTC),
		},
	}
}

func (s *reportService) List(ctx context.Context, filter models.ReportFilter) (*models.ReportList, error) {
	if err := ValidateReportFilter(filter); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := &models.ReportList{
		Filter:  filter,
		Reports: make([]*models.Report, 0, len(s.reports)),
		Total:   len(s.reports),
	}
	for _, r := range s.reports {
		if r.Status == models.ReportStatusPending {
			list.Pending++
		}
		if r.Severity == models.ReportSeverityHigh {
			list.HighPriority++
		}
		if !matchesReport(r, filter) {
			continue
		}
		c := *r
		list.Reports = append(list.Reports, &c)
	}
	return list, nil
}

func (s *reportService) Get(ctx context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, ErrReportNotFound
}

func (s *reportService) UpdateStatus(ctx context.Context, adminID, id, status string) (*models.Report, error) {
	next, err := models.ParseReportStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reports {
		if r.ID != id {
			continue
		}
		prev := r.Status
		r.Status = next

		s.logger.LogAdminAction(adminID, "update_report_status", map[string]interface{}{
			"report_id": id,
			"from":      prev,
			"to":        next,
		})

		c := *r
		return &c, nil
	}
	return nil, ErrReportNotFound
}

func ValidateReportFilter(filter models.ReportFilter) error {
	if filter.Status != "" && filter.Status != utils.FilterAll {
		if _, err := models.ParseReportStatus(filter.Status); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
	}
	if filter.Type != "" && filter.Type != utils.FilterAll {
		if _, err := models.ParseReportedType(filter.Type); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
	}
	return nil
}

func matchesReport(r *models.Report, filter models.ReportFilter) bool {
	if filter.Status != "" && filter.Status != utils.FilterAll && string(r.Status) != filter.Status {
		return false
	}
	if filter.Type != "" && filter.Type != utils.FilterAll && string(r.ReportedType) != filter.Type {
		return false
	}
	return utils.MatchesAny(filter.Search, r.ReporterName, r.ReportedName, r.Reason)
}
