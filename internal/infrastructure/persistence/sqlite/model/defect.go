package model

import "time"

type Defect struct {
	ID               uint       `gorm:"column:id;primaryKey;autoIncrement"`
	TestCaseID       *uint      `gorm:"column:test_case_id;index"`
	ServiceID        uint       `gorm:"column:service_id;not null;index"`
	Title            string     `gorm:"column:title;type:text;not null"`
	Description      string     `gorm:"column:description;type:text;not null"`
	Severity         string     `gorm:"column:severity;type:text;not null;default:Medium"`
	Status           string     `gorm:"column:status;type:text;not null;default:Open"`
	StepsToReproduce string     `gorm:"column:steps_to_reproduce;type:text"`
	ExpectedBehavior string     `gorm:"column:expected_behavior;type:text"`
	ActualBehavior   string     `gorm:"column:actual_behavior;type:text"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;index"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;not null"`
	ResolvedAt       *time.Time `gorm:"column:resolved_at"`
}

func (Defect) TableName() string {
	return "defects"
}
