package booking

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// AgeCategory is a pricing tier inside a package. MaxAge nil means unbounded.
type AgeCategory struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	MinAge int     `json:"minAge"`
	MaxAge *int    `json:"maxAge"`
	Price  float64 `json:"price"`
}

// Key is what headcount maps are keyed by: the synthetic id assigned at load
// time, or the lowercased label for tiers that never went through Normalize.
func (c AgeCategory) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return strings.ToLower(c.Label)
}

// TimeSlot is a start/end time pair with a per-slot capacity.
type TimeSlot struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity"`
}

// ItineraryStep is one ordered step of a package's program.
type ItineraryStep struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationLabel string `json:"durationLabel"`
	DayNumber     int    `json:"dayNumber"`
	OrderIndex    int    `json:"orderIndex"`
}

// PackageOption is the normalized, in-memory view of a purchasable variant.
type PackageOption struct {
	Name                string          `json:"name"`
	Categories          []AgeCategory   `json:"categories"`
	TimeSlots           []TimeSlot      `json:"timeSlots"`
	Itinerary           []ItineraryStep `json:"itinerary"`
	UnavailableDates    []string        `json:"unavailableDates"`    // ISO YYYY-MM-DD
	UnavailableWeekdays []int           `json:"unavailableWeekdays"` // 0=Sunday .. 6=Saturday
}

// DefaultCategories is the fallback schedule for packages whose tier list is
// missing or empty: Adult 13+ at base price, Child 4-12 at half, Infant free.
func DefaultCategories(basePrice float64) []AgeCategory {
	twelve, three := 12, 3
	return []AgeCategory{
		{Label: "Adult", MinAge: 13, MaxAge: nil, Price: basePrice},
		{Label: "Child", MinAge: 4, MaxAge: &twelve, Price: basePrice / 2},
		{Label: "Infant", MinAge: 0, MaxAge: &three, Price: 0},
	}
}

// NormalizeCategories assigns a synthetic id to every tier that lacks one and
// sorts by descending MinAge, so index 0 is always the adult-equivalent tier.
// An empty input falls back to the default schedule for basePrice.
func NormalizeCategories(cats []AgeCategory, basePrice float64) []AgeCategory {
	if len(cats) == 0 {
		cats = DefaultCategories(basePrice)
	}
	out := make([]AgeCategory, len(cats))
	copy(out, cats)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinAge > out[j].MinAge
	})
	return out
}

// Normalize prepares a package for the availability and pricing engines.
func (p PackageOption) Normalize(basePrice float64) PackageOption {
	p.Categories = NormalizeCategories(p.Categories, basePrice)
	sort.SliceStable(p.Itinerary, func(i, j int) bool {
		if p.Itinerary[i].DayNumber != p.Itinerary[j].DayNumber {
			return p.Itinerary[i].DayNumber < p.Itinerary[j].DayNumber
		}
		return p.Itinerary[i].OrderIndex < p.Itinerary[j].OrderIndex
	})
	return p
}
