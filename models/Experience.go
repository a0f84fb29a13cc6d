package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Experience struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	HostID uint `json:"hostID" gorm:"not null;index"`
	Host   User `json:"host" gorm:"foreignKey:HostID"`

	// Basic Info
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"index"`

	// Location
	Address   string  `json:"address"`
	City      string  `json:"city" gorm:"index"`
	Country   string  `json:"country" gorm:"index"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Pricing & logistics
	BasePrice       float64 `json:"basePrice" gorm:"not null"`
	DurationHours   float64 `json:"durationHours"`
	MaxParticipants *int    `json:"maxParticipants"` // nil means the default cap applies

	// Aggregates, maintained by the review routes
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`

	// Media
	Images datatypes.JSON `json:"images" gorm:"type:jsonb"`

	Status string `json:"status" gorm:"type:varchar(20);default:active;index"` // active, paused

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Packages []PackageOption `json:"packages" gorm:"foreignKey:ExperienceID"`
}
