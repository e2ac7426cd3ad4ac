package model

import "time"

type Event struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ServiceID    uint      `gorm:"column:service_id;not null;index"`
	Action       string    `gorm:"column:action;type:text;not null"`
	Status       string    `gorm:"column:status;type:text;not null;default:success"`
	Timestamp    time.Time `gorm:"column:timestamp;not null;index"`
	JourneyTime  *float64  `gorm:"column:journey_time"`
	ErrorMessage *string   `gorm:"column:error_message;type:text"`
	Metadata     *string   `gorm:"column:event_metadata;type:text"`
}

func (Event) TableName() string {
	return "events"
}
