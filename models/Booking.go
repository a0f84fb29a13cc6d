package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking statuses. Payment state is tracked separately so a pending payment
// never hides a confirmed reservation.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Booking references its experience by id only (index, no cascade): deleting
// an experience must not erase the booking history.
type Booking struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	ExperienceID uint `json:"experienceID" gorm:"not null;index"`
	UserID       uint `json:"userID" gorm:"not null;index"`

	PackageName      string         `json:"packageName"`
	SelectedDate     time.Time      `json:"selectedDate" gorm:"type:date;not null;index"`
	StartTime        string         `json:"startTime"`
	ParticipantCount int            `json:"participantCount" gorm:"not null"`
	Headcounts       datatypes.JSON `json:"headcounts" gorm:"type:jsonb"` // category key -> count

	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`

	TotalPrice    float64 `json:"totalPrice" gorm:"not null"`
	Status        string  `json:"status" gorm:"type:varchar(20);default:pending;index"`
	PaymentStatus string  `json:"paymentStatus" gorm:"type:varchar(20);default:pending;index"`
	Reference     string  `json:"reference" gorm:"uniqueIndex"` // handed to the payment processor

	IsRead bool `json:"isRead" gorm:"default:false"` // business dashboard

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Experience Experience `json:"experience" gorm:"foreignKey:ExperienceID"`
	User       User       `json:"user" gorm:"foreignKey:UserID"`
}
