package model

import "time"

type Session struct {
	Token     string    `gorm:"column:token;primaryKey"`
	Username  string    `gorm:"column:username;type:text;not null"`
	Role      string    `gorm:"column:role;type:text;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

func (Session) TableName() string {
	return "sessions"
}
