package models

import (
	"time"

	"gorm.io/gorm"
)

// Upload records a file relayed to object storage.
type Upload struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	TaskID    *uint64        `gorm:"index" json:"task_id"`
	URL       string         `gorm:"type:varchar(1024);not null" json:"url"`
	Type      string         `gorm:"type:varchar(255)" json:"type"`
	ObjectID  string         `gorm:"type:varchar(255)" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
