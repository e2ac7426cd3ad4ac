package model

import "time"

type Service struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:text;not null;index"`
	Channel     string    `gorm:"column:channel;type:text;not null"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (Service) TableName() string {
	return "services"
}
