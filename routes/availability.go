package routes

import (
	"time"

	"tripmarket-server/booking"
	"tripmarket-server/models"
	"tripmarket-server/utils"

	"github.com/kataras/iris/v12"
)

// GetExperienceAvailability computes the bookable dates for an experience.
// With ?package=N the dates reflect that package's blackouts; without it the
// result is the conservative union of every package's blackouts, which is what
// the listing calendar shows before a package is chosen.
func GetExperienceAvailability(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var experience models.Experience
	if err := loadExperienceWithPackages(&experience, id); err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Experience not found"})
		return
	}

	packages := models.BookingPackages(experience.Packages, experience.BasePrice)
	today := time.Now()

	packageIndex := ctx.URLParamIntDefault("package", -1)
	var dates []string
	var slots []booking.TimeSlot
	if packageIndex >= 0 && packageIndex < len(packages) {
		pkg := packages[packageIndex]
		dates = booking.AvailableDates(pkg.UnavailableDates, pkg.UnavailableWeekdays, 0, today)
		slots = pkg.TimeSlots
	} else {
		blackoutDates, blackoutWeekdays := booking.UnionBlackouts(packages)
		dates = booking.AvailableDates(blackoutDates, blackoutWeekdays, 0, today)
	}

	defaultDate := ""
	if len(dates) > 0 {
		defaultDate = dates[0]
	}

	ctx.JSON(iris.Map{
		"success":     true,
		"dates":       dates,
		"defaultDate": defaultDate,
		"timeSlots":   slots,
	})
}

type QuoteInput struct {
	ExperienceID uint           `json:"experienceID" validate:"required"`
	PackageIndex int            `json:"packageIndex" validate:"min=0"`
	Date         string         `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string         `json:"startTime" validate:"required"`
	Headcounts   map[string]int `json:"headcounts" validate:"required"`
}

// QuoteSelection replays a client selection through the controller and returns
// the authoritative total. Clients render their own running totals; this is
// what the checkout screen shows, and what CreateBooking will recompute again.
func QuoteSelection(ctx iris.Context) {
	var input QuoteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var experience models.Experience
	if err := loadExperienceWithPackages(&experience, input.ExperienceID); err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Experience not found"})
		return
	}

	packages := models.BookingPackages(experience.Packages, experience.BasePrice)
	sel, errMsg := replaySelection(packages, experienceCap(&experience), input.PackageIndex, input.Date, input.StartTime, input.Headcounts)
	if errMsg != "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": errMsg})
		return
	}

	total := sel.Total()
	ctx.JSON(iris.Map{
		"success":      true,
		"total":        total,
		"displayPrice": booking.DisplayPrice(sel, packages, experience.BasePrice),
		"participants": sel.TotalParticipants(),
		"headcounts":   sel.Counts(),
	})
}

func experienceCap(experience *models.Experience) int {
	if experience.MaxParticipants != nil && *experience.MaxParticipants > 0 {
		return *experience.MaxParticipants
	}
	return booking.DefaultMaxPeople
}

// replaySelection drives a fresh Selection through the same transitions the
// booking widget would: select the package, set date and slot, then raise each
// tier from its floor to the requested count. Requests that ask for counts the
// controller would refuse (below a floor, above the cap, unknown slot) come
// back with a reason instead of a selection.
func replaySelection(packages []booking.PackageOption, maxPeople, packageIndex int, date, startTime string, headcounts map[string]int) (*booking.Selection, string) {
	if packageIndex < 0 || packageIndex >= len(packages) {
		return nil, "invalid package index"
	}
	pkg := packages[packageIndex]

	available := booking.AvailableDates(pkg.UnavailableDates, pkg.UnavailableWeekdays, 0, time.Now())
	dateOK := false
	for _, d := range available {
		if d == date {
			dateOK = true
			break
		}
	}
	if !dateOK {
		return nil, "date is not available for this package"
	}

	slotOK := false
	for _, slot := range pkg.TimeSlots {
		if slot.StartTime == startTime {
			slotOK = true
			break
		}
	}
	if !slotOK {
		return nil, "start time does not match a slot of this package"
	}

	sel := booking.NewSelection(packages, maxPeople)
	sel.SelectPackage(packageIndex)
	sel.SetDate(date)
	sel.SetStartTime(startTime)

	for key, want := range headcounts {
		known := false
		for _, c := range pkg.Categories {
			if c.Key() == key {
				known = true
				break
			}
		}
		if !known {
			return nil, "unknown age category: " + key
		}
		if want < 0 {
			return nil, "negative headcount for " + key
		}
	}

	for _, c := range pkg.Categories {
		want, ok := headcounts[c.Key()]
		if !ok {
			want = sel.Counts()[c.Key()]
		}
		for sel.Counts()[c.Key()] < want {
			if !sel.Increment(c.Key()) {
				return nil, "participant count exceeds the maximum for this experience"
			}
		}
		for sel.Counts()[c.Key()] > want {
			if !sel.Decrement(c.Key()) {
				return nil, "headcount below the minimum for " + c.Label
			}
		}
	}

	return sel, ""
}
