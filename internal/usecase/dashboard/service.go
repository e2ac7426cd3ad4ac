// Package dashboard computes the executive summary shown on the landing
// page and in the terminal dashboard.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"pulseboard/internal/bootstrap/logging"
	domain "pulseboard/internal/domain/analytics"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
)

type Service struct {
	services  ports.ServiceRepository
	events    ports.EventRepository
	testCases ports.TestCaseRepository
	defects   ports.DefectRepository
	now       func() time.Time
}

func NewService(
	services ports.ServiceRepository,
	events ports.EventRepository,
	testCases ports.TestCaseRepository,
	defects ports.DefectRepository,
) *Service {
	return &Service{
		services:  services,
		events:    events,
		testCases: testCases,
		defects:   defects,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Summary is the high-level rollup: last 30 days of events plus the full
// test case and defect populations.
type Summary struct {
	ServicesCount   int64
	KPI             domain.KPISnapshot
	ServicePerf     []domain.ServicePerformance
	TotalTestCases  int
	PassedTestCases int
	FailedTestCases int
	TestPassRate    float64
	TotalDefects    int
	OpenDefects     int
	CriticalDefects int
	SeverityDist    []domain.LabelCount
}

const summaryWindowDays = 30

// Summary loads everything the dashboard shows. Any data-access fault
// degrades to a zeroed summary plus ErrDataUnavailable.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	start := s.now().AddDate(0, 0, -summaryWindowDays)

	eventRows, err := s.events.ListRows(ctx, ports.EventFilter{Start: &start})
	if err != nil {
		return s.unavailable(ctx, err)
	}

	servicesCount, err := s.services.Count(ctx)
	if err != nil {
		return s.unavailable(ctx, err)
	}

	testRows, err := s.testCases.ListRows(ctx, nil)
	if err != nil {
		return s.unavailable(ctx, err)
	}

	defectRows, err := s.defects.ListRows(ctx, nil)
	if err != nil {
		return s.unavailable(ctx, err)
	}

	summary := Summary{
		ServicesCount:  servicesCount,
		KPI:            domain.Snapshot(eventRows),
		ServicePerf:    domain.ServicePerformanceByName(eventRows),
		TotalTestCases: len(testRows),
		TestPassRate:   domain.TestPassRate(testRows),
		TotalDefects:   len(defectRows),
		SeverityDist:   domain.DefectSeverityDistribution(defectRows),
	}

	for _, row := range testRows {
		switch row.Status {
		case "Passed":
			summary.PassedTestCases++
		case "Failed":
			summary.FailedTestCases++
		}
	}
	for _, row := range defectRows {
		if row.Status == "Open" {
			summary.OpenDefects++
		}
		if row.Severity == "Critical" {
			summary.CriticalDefects++
		}
	}

	return summary, nil
}

func (s *Service) unavailable(ctx context.Context, err error) (Summary, error) {
	logging.Error(ctx, "load dashboard data failed", slog.Any("err", errs.Loggable(err)))
	return Summary{}, errs.Wrap(analyticsuc.ErrDataUnavailable, err.Error())
}
