package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID       uint     `json:"userID" gorm:"not null;index"`
	ExperienceID uint     `json:"experienceID" gorm:"not null;index"`
	BookingID    *uint    `json:"bookingID" gorm:"index"` // link to the stay being reviewed
	Booking      *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	User         User     `json:"user" gorm:"foreignKey:UserID"`

	Title      string `json:"title"`
	Body       string `json:"body" gorm:"type:text"`
	Stars      int    `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	IsVerified bool   `json:"isVerified" gorm:"default:false"` // reviewer actually booked
}
