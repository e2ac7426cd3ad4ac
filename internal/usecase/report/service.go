// Package report assembles the two report documents from live data and
// hands them to a renderer. Document building is total; only rendering
// and data access can fail.
package report

import (
	"context"
	"log/slog"
	"time"

	"pulseboard/internal/bootstrap/logging"
	domain "pulseboard/internal/domain/analytics"
	reportdoc "pulseboard/internal/domain/report"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
)

// Renderer turns a document into export bytes. The PDF adapter is the one
// production implementation.
type Renderer interface {
	Render(doc reportdoc.Document) ([]byte, error)
}

type Service struct {
	analytics *analyticsuc.Service
	testCases ports.TestCaseRepository
	defects   ports.DefectRepository
	renderer  Renderer
	profile   Profile
	now       func() time.Time
}

func NewService(
	profile Profile,
	analyticsSvc *analyticsuc.Service,
	testCases ports.TestCaseRepository,
	defects ports.DefectRepository,
	renderer Renderer,
) *Service {
	return &Service{
		analytics: analyticsSvc,
		testCases: testCases,
		defects:   defects,
		renderer:  renderer,
		profile:   profile,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AnalyticsDocument builds the analytics report for the filtered window.
// A data-access fault still yields a complete (zeroed) document; the error
// tells the caller to surface "unable to load data".
func (s *Service) AnalyticsDocument(ctx context.Context, filter analyticsuc.Filter) (reportdoc.Document, error) {
	overview, err := s.analytics.Overview(ctx, filter)

	doc := reportdoc.BuildAnalytics(reportdoc.AnalyticsInput{
		KPI:         overview.KPI,
		ServicePerf: overview.ServicePerf,
		StatusDist:  overview.StatusDist,
		GeneratedAt: s.now(),
		Thresholds:  s.profile.Thresholds,
	})
	return doc, err
}

// UATDocument builds the UAT report for an optional service filter.
func (s *Service) UATDocument(ctx context.Context, serviceID *uint) (reportdoc.Document, error) {
	var loadErr error

	testRows, err := s.testCases.ListRows(ctx, serviceID)
	if err != nil {
		logging.Error(ctx, "load test cases for report failed", slog.Any("err", errs.Loggable(err)))
		testRows = nil
		loadErr = errs.Wrap(analyticsuc.ErrDataUnavailable, err.Error())
	}

	defectRows, err := s.defects.ListRows(ctx, serviceID)
	if err != nil {
		logging.Error(ctx, "load defects for report failed", slog.Any("err", errs.Loggable(err)))
		defectRows = nil
		loadErr = errs.Wrap(analyticsuc.ErrDataUnavailable, err.Error())
	}

	doc := reportdoc.BuildUAT(reportdoc.UATInput{
		TotalTestCases:   len(testRows),
		TestStatusDist:   domain.TestStatusDistribution(testRows),
		TotalDefects:     len(defectRows),
		SeverityDist:     domain.DefectSeverityDistribution(defectRows),
		DefectStatusDist: domain.DefectStatusDistribution(defectRows),
		GeneratedAt:      s.now(),
	})
	return doc, loadErr
}

// AnalyticsPDF renders the analytics report. Render faults are hard
// failures, unlike data faults.
func (s *Service) AnalyticsPDF(ctx context.Context, filter analyticsuc.Filter) ([]byte, error) {
	doc, err := s.AnalyticsDocument(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, doc)
}

func (s *Service) UATPDF(ctx context.Context, serviceID *uint) ([]byte, error) {
	doc, err := s.UATDocument(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, doc)
}

func (s *Service) render(ctx context.Context, doc reportdoc.Document) ([]byte, error) {
	payload, err := s.renderer.Render(doc)
	if err != nil {
		logging.Error(ctx, "render report failed",
			slog.String("title", doc.Title),
			slog.Any("err", errs.Loggable(err)),
		)
		return nil, errs.Wrap(err, "render report")
	}

	logging.Info(ctx, "report rendered",
		slog.String("title", doc.Title),
		slog.Int("bytes", len(payload)),
	)
	return payload, nil
}
