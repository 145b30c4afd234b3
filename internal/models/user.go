package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	Level        int       `gorm:"not null;default:1" json:"level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Schedules       []Schedule       `gorm:"foreignKey:UserID" json:"-"`
	Uploads         []Upload         `gorm:"foreignKey:UserID" json:"-"`
	Recommendations []Recommendation `gorm:"foreignKey:UserID" json:"-"`
}
