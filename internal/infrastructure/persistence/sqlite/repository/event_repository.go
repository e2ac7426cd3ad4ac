package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pulseboard/internal/errs"
	"pulseboard/internal/infrastructure/persistence/sqlite/model"
	"pulseboard/internal/ports"
)

type EventRepository struct {
	db *gorm.DB
}

var _ ports.EventRepository = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

type eventJoinRow struct {
	model.Event
	ServiceName    string
	ServiceChannel string
}

// ListRows returns events joined with their owning service. The end bound
// covers the whole end calendar day, not just its midnight.
func (r *EventRepository) ListRows(ctx context.Context, filter ports.EventFilter) ([]ports.EventRow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Event{}).
		Select("events.*, services.name as service_name, services.channel as service_channel").
		Joins("JOIN services ON services.id = events.service_id")

	if filter.ServiceID != nil {
		query = query.Where("events.service_id = ?", *filter.ServiceID)
	}
	if filter.Start != nil {
		query = query.Where("events.timestamp >= ?", startOfDay(*filter.Start))
	}
	if filter.End != nil {
		query = query.Where("events.timestamp < ?", startOfDay(*filter.End).AddDate(0, 0, 1))
	}

	var joined []eventJoinRow
	if err := query.Order("events.timestamp asc").Scan(&joined).Error; err != nil {
		return nil, errs.Wrap(err, "query events")
	}

	rows := make([]ports.EventRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, ports.EventRow{
			ID:           row.ID,
			Service:      row.ServiceName,
			Channel:      row.ServiceChannel,
			Action:       row.Action,
			Status:       row.Status,
			Timestamp:    row.Timestamp,
			JourneyTime:  row.JourneyTime,
			ErrorMessage: row.ErrorMessage,
		})
	}
	return rows, nil
}

func (r *EventRepository) Create(ctx context.Context, input ports.EventCreate) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := eventModel(input)
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert event")
	}
	return nil
}

func (r *EventRepository) CreateBatch(ctx context.Context, inputs []ports.EventCreate) error {
	if len(inputs) == 0 {
		return nil
	}

	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	rows := make([]model.Event, 0, len(inputs))
	for _, input := range inputs {
		rows = append(rows, eventModel(input))
	}
	if err := db.CreateInBatches(rows, 200).Error; err != nil {
		return errs.Wrap(err, "insert events batch")
	}
	return nil
}

func (r *EventRepository) DeleteAll(ctx context.Context) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.Where("1 = 1").Delete(&model.Event{}).Error; err != nil {
		return errs.Wrap(err, "delete all events")
	}
	return nil
}

func eventModel(input ports.EventCreate) model.Event {
	ts := input.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return model.Event{
		ServiceID:    input.ServiceID,
		Action:       input.Action,
		Status:       input.Status,
		Timestamp:    ts,
		JourneyTime:  input.JourneyTime,
		ErrorMessage: input.ErrorMessage,
		Metadata:     input.Metadata,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
