package models

import (
	"time"

	"gorm.io/gorm"
)

type Schedule struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description *string        `gorm:"type:text" json:"description"`
	Time        time.Time      `gorm:"not null" json:"time"`
	Icon        string         `gorm:"type:varchar(255)" json:"icon"`
	Hour        int            `gorm:"not null" json:"hour"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Tasks []Task `gorm:"foreignKey:ScheduleID" json:"tasks,omitempty"`
}
