package routes

import (
	"encoding/json"
	"errors"
	"time"

	"tripmarket-server/booking"
	"tripmarket-server/models"
	"tripmarket-server/services"
	"tripmarket-server/storage"
	"tripmarket-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	ExperienceID uint           `json:"experienceID" validate:"required"`
	PackageIndex int            `json:"packageIndex" validate:"min=0"`
	Date         string         `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string         `json:"startTime" validate:"required"`
	Headcounts   map[string]int `json:"headcounts" validate:"required"`
	ContactName  string         `json:"contactName" validate:"required,max=256"`
	ContactEmail string         `json:"contactEmail" validate:"required,email"`
	ContactPhone string         `json:"contactPhone" validate:"max=32"`
}

var errSlotFull = errors.New("slot is fully booked")

// CreateBooking writes a pending booking. The client's running total is never
// trusted: the selection is replayed server-side, and the slot capacity check
// runs inside the insert transaction so two racing requests cannot both land
// in the last seats.
func CreateBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateBookingInput
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
	if experience.Status != "active" {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": "Experience is not accepting bookings"})
		return
	}

	packages := models.BookingPackages(experience.Packages, experience.BasePrice)
	sel, errMsg := replaySelection(packages, experienceCap(&experience), input.PackageIndex, input.Date, input.StartTime, input.Headcounts)
	if errMsg != "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": errMsg})
		return
	}

	selectedDate, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "invalid date"})
		return
	}

	pkg := packages[input.PackageIndex]
	capacity := slotCapacity(pkg, input.StartTime, experienceCap(&experience))
	headcountsRaw, _ := json.Marshal(sel.Counts())

	newBooking := models.Booking{
		ExperienceID:     experience.ID,
		UserID:           userID,
		PackageName:      pkg.Name,
		SelectedDate:     selectedDate,
		StartTime:        input.StartTime,
		ParticipantCount: sel.TotalParticipants(),
		Headcounts:       headcountsRaw,
		ContactName:      input.ContactName,
		ContactEmail:     input.ContactEmail,
		ContactPhone:     input.ContactPhone,
		TotalPrice:       sel.Total(),
		Status:           models.BookingStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
		Reference:        utils.GenerateShortToken(8),
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&models.Booking{}).
			Select("COALESCE(SUM(participant_count), 0)").
			Where("experience_id = ? AND selected_date = ? AND start_time = ? AND status <> ?",
				experience.ID, selectedDate, input.StartTime, models.BookingStatusCancelled).
			Scan(&taken).Error
		if err != nil {
			return err
		}
		if taken+int64(newBooking.ParticipantCount) > int64(capacity) {
			return errSlotFull
		}
		return tx.Create(&newBooking).Error
	})
	if errors.Is(txErr, errSlotFull) {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": "not enough capacity left for this slot"})
		return
	}
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	go services.NewNotificationService().NotifyBookingCreated(newBooking, experience)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "booking": newBooking})
}

// GetUserBookings lists the traveler's own bookings, newest first.
func GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Where("user_id = ?", userID).
		Preload("Experience").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": bookings})
}

// GetHostBookings lists bookings across every experience the caller hosts.
func GetHostBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.
		Joins("JOIN experiences ON experiences.id = bookings.experience_id").
		Where("experiences.host_id = ?", userID).
		Preload("Experience").
		Preload("User").
		Order("bookings.created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": bookings})
}

// MarkBookingAsRead flags a booking as seen on the host dashboard.
func MarkBookingAsRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	result := storage.DB.Model(&models.Booking{}).
		Where("bookings.id = ? AND experience_id IN (?)", id,
			storage.DB.Model(&models.Experience{}).Select("id").Where("host_id = ?", userID)).
		Update("is_read", true)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// CancelBooking flips the traveler's booking to cancelled. Allowed until 24
// hours before the selected date; the row is kept for history, never deleted.
func CancelBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var existing models.Booking
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if existing.Status == models.BookingStatusCancelled {
		ctx.JSON(iris.Map{"success": true, "booking": existing})
		return
	}
	if time.Until(existing.SelectedDate) < 24*time.Hour {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": "bookings can only be cancelled up to 24 hours before the date"})
		return
	}

	existing.Status = models.BookingStatusCancelled
	if err := storage.DB.Save(&existing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var experience models.Experience
	if err := storage.DB.First(&experience, existing.ExperienceID).Error; err == nil {
		go services.NewNotificationService().NotifyBookingCancelled(existing, experience)
	}

	ctx.JSON(iris.Map{"success": true, "booking": existing})
}

// slotCapacity resolves the effective capacity of a slot: its own limit, or
// the experience-wide cap when the slot leaves it at zero.
func slotCapacity(pkg booking.PackageOption, startTime string, experienceMax int) int {
	for _, slot := range pkg.TimeSlots {
		if slot.StartTime == startTime && slot.Capacity > 0 {
			return slot.Capacity
		}
	}
	return experienceMax
}
