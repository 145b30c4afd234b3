package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	ScheduleID uint64         `gorm:"not null;index" json:"schedule_id"`
	Title      string         `gorm:"type:varchar(255);not null" json:"title"`
	Emoji      *string        `gorm:"type:varchar(32)" json:"emoji"`
	StartTime  *time.Time     `json:"start_time"`
	EndTime    *time.Time     `json:"end_time"`
	Completed  bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Schedule Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	Uploads  []Upload `gorm:"foreignKey:TaskID" json:"uploads,omitempty"`
}
