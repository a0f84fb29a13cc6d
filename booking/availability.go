package booking

import (
	"time"

	"golang.org/x/exp/slices"
)

// DefaultHorizonDays is the scan window: 12 months of 31 day-steps.
const DefaultHorizonDays = 12 * 31

// AvailableDates returns the ascending list of bookable ISO dates within
// horizonDays of today. A date is dropped when it appears in unavailableDates.
//
// When unavailableWeekdays (0=Sunday..6=Saturday) is non-empty, only dates
// whose weekday IS in the list survive. That inverts what the field name
// suggests, but it is the behavior the booking widget has always shipped with,
// so it is kept as-is rather than silently "fixed".
func AvailableDates(unavailableDates []string, unavailableWeekdays []int, horizonDays int, today time.Time) []string {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	blocked := make(map[string]struct{}, len(unavailableDates))
	for _, d := range unavailableDates {
		blocked[d] = struct{}{}
	}

	maxYear := today.Year() + 1
	dates := make([]string, 0, horizonDays)
	seen := make(map[string]struct{}, horizonDays)

	for offset := 0; offset < horizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		if day.Year() > maxYear {
			break
		}

		// Build the key from local calendar fields; formatting a raw UTC
		// timestamp can land on the neighboring day.
		key := day.Format("2006-01-02")

		if _, ok := blocked[key]; ok {
			continue
		}
		if len(unavailableWeekdays) > 0 && !slices.Contains(unavailableWeekdays, int(day.Weekday())) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, key)
	}

	return dates
}

// UnionBlackouts merges the blackout dates and weekday lists of every package,
// for the conservative "no package selected yet" scan.
func UnionBlackouts(packages []PackageOption) (dates []string, weekdays []int) {
	for _, p := range packages {
		for _, d := range p.UnavailableDates {
			if !slices.Contains(dates, d) {
				dates = append(dates, d)
			}
		}
		for _, w := range p.UnavailableWeekdays {
			if !slices.Contains(weekdays, w) {
				weekdays = append(weekdays, w)
			}
		}
	}
	return dates, weekdays
}
