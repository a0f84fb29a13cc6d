package routes

import (
	"tripmarket-server/models"
	"tripmarket-server/storage"
	"tripmarket-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Title     string `json:"title" validate:"required,max=256"`
	Body      string `json:"body" validate:"max=4000"`
	Stars     int    `json:"stars" validate:"required,min=1,max=5"`
	BookingID *uint  `json:"bookingID"`
}

// GetExperienceReviews lists reviews for an experience, newest first.
func GetExperienceReviews(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Review{}).Where("experience_id = ?", id)

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, reviews, page, perPage, total)
}

// CreateExperienceReview writes a review and refreshes the experience's
// aggregate rating and review count in the same transaction. A review tied to
// the caller's own paid booking is marked verified.
func CreateExperienceReview(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var experience models.Experience
	if err := storage.DB.First(&experience, id).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Experience not found"})
		return
	}

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing int64
	storage.DB.Model(&models.Review{}).
		Where("experience_id = ? AND user_id = ?", id, userID).
		Count(&existing)
	if existing > 0 {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": "you already reviewed this experience"})
		return
	}

	verified := false
	if input.BookingID != nil {
		var matched int64
		storage.DB.Model(&models.Booking{}).
			Where("id = ? AND user_id = ? AND experience_id = ? AND payment_status = ?",
				*input.BookingID, userID, id, models.PaymentStatusPaid).
			Count(&matched)
		verified = matched > 0
	}

	review := models.Review{
		UserID:       userID,
		ExperienceID: id,
		BookingID:    input.BookingID,
		Title:        input.Title,
		Body:         input.Body,
		Stars:        input.Stars,
		IsVerified:   verified,
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var agg struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&models.Review{}).
			Select("COALESCE(AVG(stars), 0) AS avg, COUNT(*) AS count").
			Where("experience_id = ?", id).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Experience{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"rating":       agg.Avg,
				"review_count": agg.Count,
			}).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "review": review})
}
