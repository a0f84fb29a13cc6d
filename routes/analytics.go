package routes

import (
	"time"

	"tripmarket-server/models"
	"tripmarket-server/storage"

	"github.com/kataras/iris/v12"
)

// GET /api/business/stats
func BusinessStats(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	ownedExperiences := storage.DB.Model(&models.Experience{}).
		Select("id").Where("host_id = ?", userID)

	var activeExperiences int64
	storage.DB.Model(&models.Experience{}).
		Where("host_id = ? AND status = ?", userID, "active").
		Count(&activeExperiences)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newBookings7, newBookings30 int64
	storage.DB.Model(&models.Booking{}).
		Where("experience_id IN (?) AND created_at >= ?", ownedExperiences, since7).
		Count(&newBookings7)
	storage.DB.Model(&models.Booking{}).
		Where("experience_id IN (?) AND created_at >= ?", ownedExperiences, since30).
		Count(&newBookings30)

	var unreadBookings int64
	storage.DB.Model(&models.Booking{}).
		Where("experience_id IN (?) AND is_read = ?", ownedExperiences, false).
		Count(&unreadBookings)

	var revenue30 float64
	storage.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("experience_id IN (?) AND payment_status = ? AND created_at >= ?",
			ownedExperiences, models.PaymentStatusPaid, since30).
		Scan(&revenue30)

	var upcoming int64
	storage.DB.Model(&models.Booking{}).
		Where("experience_id IN (?) AND selected_date >= ? AND status <> ?",
			ownedExperiences, time.Now(), models.BookingStatusCancelled).
		Count(&upcoming)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"active_experiences": activeExperiences,
			"new_bookings_7d":    newBookings7,
			"new_bookings_30d":   newBookings30,
			"unread_bookings":    unreadBookings,
			"revenue_30d":        revenue30,
			"upcoming_bookings":  upcoming,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}
