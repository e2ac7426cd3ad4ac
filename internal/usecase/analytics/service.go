package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pulseboard/internal/bootstrap/logging"
	domain "pulseboard/internal/domain/analytics"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

// ErrDataUnavailable marks a filter-layer fault. Callers surface it as
// "unable to load data"; the overview returned alongside is computed from
// an empty row-set so downstream rendering still works.
var ErrDataUnavailable = errors.New("data unavailable")

type Service struct {
	events   ports.EventRepository
	services ports.ServiceRepository
}

func NewService(events ports.EventRepository, services ports.ServiceRepository) *Service {
	return &Service{events: events, services: services}
}

// Filter mirrors the page filters: optional service, optional inclusive
// calendar-day window.
type Filter struct {
	ServiceID *uint
	Start     *time.Time
	End       *time.Time
}

// Overview is one analytics page worth of data: the raw filtered rows plus
// everything aggregated from them.
type Overview struct {
	KPI         domain.KPISnapshot
	ServicePerf []domain.ServicePerformance
	StatusDist  []domain.StatusCount
	Rows        []ports.EventRow
}

// ValidateFilter rejects an inverted date range.
func ValidateFilter(filter Filter) error {
	if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return errors.New("start date must be before end date")
	}
	return nil
}

// Overview loads the filtered event rows and aggregates them. A data-access
// fault degrades to an empty overview plus ErrDataUnavailable; it never
// panics or returns partial aggregates.
func (s *Service) Overview(ctx context.Context, filter Filter) (Overview, error) {
	if err := ValidateFilter(filter); err != nil {
		return Overview{}, err
	}

	rows, err := s.events.ListRows(ctx, ports.EventFilter{
		ServiceID: filter.ServiceID,
		Start:     filter.Start,
		End:       filter.End,
	})
	if err != nil {
		logging.Error(ctx, "load event rows failed", slog.Any("err", errs.Loggable(err)))
		return buildOverview(nil), errs.Wrap(ErrDataUnavailable, err.Error())
	}

	return buildOverview(rows), nil
}

// Services lists service refs for filter dropdowns.
func (s *Service) Services(ctx context.Context) ([]ports.ServiceRef, error) {
	refs, err := s.services.List(ctx)
	if err != nil {
		logging.Error(ctx, "load services failed", slog.Any("err", errs.Loggable(err)))
		return nil, errs.Wrap(ErrDataUnavailable, err.Error())
	}
	return refs, nil
}

func (s *Service) CreateService(ctx context.Context, input ports.ServiceCreate) (ports.ServiceRef, error) {
	if input.Name == "" {
		return ports.ServiceRef{}, errors.New("name is required")
	}
	if input.Channel == "" {
		return ports.ServiceRef{}, errors.New("channel is required")
	}
	return s.services.Create(ctx, input)
}

func (s *Service) RecordEvent(ctx context.Context, input ports.EventCreate) error {
	if input.ServiceID == 0 {
		return errors.New("service id is required")
	}
	if input.Status == "" {
		input.Status = domain.StatusSuccess
	}
	return s.events.Create(ctx, input)
}

func buildOverview(rows []ports.EventRow) Overview {
	return Overview{
		KPI:         domain.Snapshot(rows),
		ServicePerf: domain.ServicePerformanceByName(rows),
		StatusDist:  domain.StatusDistribution(rows),
		Rows:        rows,
	}
}
