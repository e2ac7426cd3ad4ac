package model

import "time"

type TestCase struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ServiceID      uint      `gorm:"column:service_id;not null;index"`
	Title          string    `gorm:"column:title;type:text;not null"`
	Description    string    `gorm:"column:description;type:text"`
	ExpectedResult string    `gorm:"column:expected_result;type:text;not null"`
	TestSteps      string    `gorm:"column:test_steps;type:text"`
	Status         string    `gorm:"column:status;type:text;not null;default:Not Started"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (TestCase) TableName() string {
	return "test_cases"
}
