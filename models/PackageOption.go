package models

import (
	"encoding/json"
	"time"

	"tripmarket-server/booking"

	"gorm.io/datatypes"
)

// PackageOption is a purchasable variant of an experience. Packages are
// replaced wholesale on every experience update (delete then reinsert), so
// row ids are not stable across edits and nothing should key on them.
type PackageOption struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	ExperienceID uint `json:"experienceID" gorm:"not null;index"`

	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// Meeting point
	MeetingAddress string  `json:"meetingAddress"`
	MeetingLat     float64 `json:"meetingLat"`
	MeetingLng     float64 `json:"meetingLng"`
	MeetingDetails string  `json:"meetingDetails" gorm:"type:text"`

	// Age-tier pricing, stored as a JSONB list of {id,label,minAge,maxAge,price}
	AgeCategories datatypes.JSON `json:"ageCategories" gorm:"type:jsonb"`

	Inclusions     datatypes.JSON `json:"inclusions" gorm:"type:jsonb"`
	Exclusions     datatypes.JSON `json:"exclusions" gorm:"type:jsonb"`
	AdditionalInfo string         `json:"additionalInfo" gorm:"type:text"`

	// Blackouts: ISO date strings and weekday indices (0=Sunday..6=Saturday)
	UnavailableDates    datatypes.JSON `json:"unavailableDates" gorm:"type:jsonb"`
	UnavailableWeekdays datatypes.JSON `json:"unavailableWeekdays" gorm:"type:jsonb"`

	TimeSlots []StartEndTime  `json:"timeSlots" gorm:"foreignKey:PackageOptionID"`
	Itinerary []ItineraryStep `json:"itinerary" gorm:"foreignKey:PackageOptionID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StartEndTime is a bookable time slot of a package. The API edge guarantees
// at least one slot per package.
type StartEndTime struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	PackageOptionID uint   `json:"packageOptionID" gorm:"not null;index"`
	StartTime       string `json:"startTime" gorm:"not null"` // "09:00"
	EndTime         string `json:"endTime"`
	Capacity        int    `json:"capacity" gorm:"default:0"` // 0 means the experience cap applies
}

type ItineraryStep struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	PackageOptionID uint   `json:"packageOptionID" gorm:"not null;index"`
	Title           string `json:"title" gorm:"not null"`
	Description     string `json:"description" gorm:"type:text"`
	DurationLabel   string `json:"durationLabel"`
	DayNumber       int    `json:"dayNumber" gorm:"default:1"`
	OrderIndex      int    `json:"orderIndex" gorm:"default:0"`
}

// ToBooking converts the stored package into the pure in-memory form the
// availability and pricing engines consume. Malformed or missing JSON columns
// degrade to empty values; an empty tier list is substituted with the default
// schedule derived from basePrice during Normalize.
func (p *PackageOption) ToBooking(basePrice float64) booking.PackageOption {
	out := booking.PackageOption{Name: p.Name}

	if p.AgeCategories != nil {
		var cats []booking.AgeCategory
		if err := json.Unmarshal(p.AgeCategories, &cats); err == nil {
			out.Categories = cats
		}
	}
	if p.UnavailableDates != nil {
		var dates []string
		if err := json.Unmarshal(p.UnavailableDates, &dates); err == nil {
			out.UnavailableDates = dates
		}
	}
	if p.UnavailableWeekdays != nil {
		var weekdays []int
		if err := json.Unmarshal(p.UnavailableWeekdays, &weekdays); err == nil {
			out.UnavailableWeekdays = weekdays
		}
	}

	for _, slot := range p.TimeSlots {
		out.TimeSlots = append(out.TimeSlots, booking.TimeSlot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Capacity:  slot.Capacity,
		})
	}
	for _, step := range p.Itinerary {
		out.Itinerary = append(out.Itinerary, booking.ItineraryStep{
			Title:         step.Title,
			Description:   step.Description,
			DurationLabel: step.DurationLabel,
			DayNumber:     step.DayNumber,
			OrderIndex:    step.OrderIndex,
		})
	}

	return out.Normalize(basePrice)
}

// BookingPackages converts and normalizes every package of an experience.
func BookingPackages(packages []PackageOption, basePrice float64) []booking.PackageOption {
	out := make([]booking.PackageOption, 0, len(packages))
	for i := range packages {
		out = append(out, packages[i].ToBooking(basePrice))
	}
	return out
}
