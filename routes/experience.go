package routes

import (
	"encoding/json"

	"tripmarket-server/booking"
	"tripmarket-server/models"
	"tripmarket-server/storage"
	"tripmarket-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgeCategoryInput struct {
	Label  string  `json:"label" validate:"required,max=64"`
	MinAge int     `json:"minAge" validate:"min=0"`
	MaxAge *int    `json:"maxAge"`
	Price  float64 `json:"price" validate:"min=0"`
}

type TimeSlotInput struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime"`
	Capacity  int    `json:"capacity" validate:"min=0"`
}

type ItineraryStepInput struct {
	Title         string `json:"title" validate:"required,max=128"`
	Description   string `json:"description"`
	DurationLabel string `json:"durationLabel"`
	DayNumber     int    `json:"dayNumber" validate:"min=1"`
	OrderIndex    int    `json:"orderIndex" validate:"min=0"`
}

type PackageOptionInput struct {
	Name                string               `json:"name" validate:"required,max=128"`
	Description         string               `json:"description"`
	MeetingAddress      string               `json:"meetingAddress"`
	MeetingLat          float64              `json:"meetingLat"`
	MeetingLng          float64              `json:"meetingLng"`
	MeetingDetails      string               `json:"meetingDetails"`
	AgeCategories       []AgeCategoryInput   `json:"ageCategories" validate:"dive"`
	Inclusions          []string             `json:"inclusions"`
	Exclusions          []string             `json:"exclusions"`
	AdditionalInfo      string               `json:"additionalInfo"`
	UnavailableDates    []string             `json:"unavailableDates" validate:"dive,datetime=2006-01-02"`
	UnavailableWeekdays []int                `json:"unavailableWeekdays" validate:"dive,min=0,max=6"`
	TimeSlots           []TimeSlotInput      `json:"timeSlots" validate:"required,min=1,dive"`
	Itinerary           []ItineraryStepInput `json:"itinerary" validate:"dive"`
}

type ExperienceInput struct {
	Title           string               `json:"title" validate:"required,max=256"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	Address         string               `json:"address"`
	City            string               `json:"city" validate:"required"`
	Country         string               `json:"country" validate:"required"`
	Latitude        float64              `json:"latitude"`
	Longitude       float64              `json:"longitude"`
	BasePrice       float64              `json:"basePrice" validate:"min=0"`
	DurationHours   float64              `json:"durationHours" validate:"min=0"`
	MaxParticipants *int                 `json:"maxParticipants"`
	Images          []string             `json:"images"`
	Packages        []PackageOptionInput `json:"packages" validate:"dive"`
}

// CreateExperience creates an experience with its packages for the calling
// business account.
func CreateExperience(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input ExperienceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if msg := validatePackageInputs(input.Packages); msg != "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": msg})
		return
	}

	experience := models.Experience{
		HostID:          userID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Address:         input.Address,
		City:            input.City,
		Country:         input.Country,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		BasePrice:       input.BasePrice,
		DurationHours:   input.DurationHours,
		MaxParticipants: input.MaxParticipants,
		Images:          marshalJSONColumn(input.Images),
		Status:          "active",
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&experience).Error; err != nil {
			return err
		}
		return insertPackages(tx, experience.ID, input.Packages)
	})
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Failed to create experience"})
		return
	}

	loadExperienceWithPackages(&experience, experience.ID)
	ctx.JSON(iris.Map{"success": true, "experience": experience})
}

// UpdateExperience updates the experience fields and replaces its packages
// wholesale: packages have no partial-update path, they are deleted and
// reinserted, so their row ids change on every edit.
func UpdateExperience(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var experience models.Experience
	if err := storage.DB.Where("id = ? AND host_id = ?", id, userID).First(&experience).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Experience not found"})
		return
	}

	var input ExperienceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if msg := validatePackageInputs(input.Packages); msg != "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": msg})
		return
	}

	experience.Title = input.Title
	experience.Description = input.Description
	experience.Category = input.Category
	experience.Address = input.Address
	experience.City = input.City
	experience.Country = input.Country
	experience.Latitude = input.Latitude
	experience.Longitude = input.Longitude
	experience.BasePrice = input.BasePrice
	experience.DurationHours = input.DurationHours
	experience.MaxParticipants = input.MaxParticipants
	experience.Images = marshalJSONColumn(input.Images)

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&experience).Error; err != nil {
			return err
		}
		if err := deletePackages(tx, experience.ID); err != nil {
			return err
		}
		return insertPackages(tx, experience.ID, input.Packages)
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	loadExperienceWithPackages(&experience, experience.ID)
	ctx.JSON(iris.Map{"success": true, "experience": experience})
}

// DeleteExperience soft-deletes an owned experience. Bookings keep their
// experience id; they reference it without a cascade.
func DeleteExperience(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var experience models.Experience
	if err := storage.DB.Where("id = ? AND host_id = ?", id, userID).First(&experience).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Experience not found"})
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := deletePackages(tx, experience.ID); err != nil {
			return err
		}
		return tx.Delete(&experience).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Experience deleted"})
}

// GetExperienceDetails is the public detail endpoint: the experience, its
// packages and the computed "from" display price.
func GetExperienceDetails(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var experience models.Experience
	if err := loadExperienceWithPackages(&experience, id); err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Experience not found"})
		return
	}

	packages := models.BookingPackages(experience.Packages, experience.BasePrice)
	fromPrice := booking.FromPrice(packages, experience.BasePrice)

	ctx.JSON(iris.Map{
		"success":    true,
		"experience": experience,
		"fromPrice":  fromPrice,
		"fromLabel":  booking.FormatPrice(fromPrice),
	})
}

// GetPublicExperiences lists active experiences with optional filters.
func GetPublicExperiences(ctx iris.Context) {
	city := ctx.URLParamDefault("city", "")
	category := ctx.URLParamDefault("category", "")
	maxPrice := ctx.URLParamFloat64Default("maxPrice", 0)
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Experience{}).Where("status = ?", "active")
	if city != "" {
		query = query.Where("lower(city) = lower(?)", city)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if maxPrice > 0 {
		query = query.Where("base_price <= ?", maxPrice)
	}

	var total int64
	query.Count(&total)

	var experiences []models.Experience
	if err := query.Order("rating DESC, created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&experiences).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, experiences, page, perPage, total)
}

// GetBusinessExperiences lists the caller's own experiences.
func GetBusinessExperiences(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var experiences []models.Experience
	if err := storage.DB.Where("host_id = ?", userID).
		Preload("Packages").
		Order("created_at DESC").
		Find(&experiences).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "experiences": experiences})
}

func loadExperienceWithPackages(experience *models.Experience, id uint) error {
	return storage.DB.
		Preload("Packages").
		Preload("Packages.TimeSlots").
		Preload("Packages.Itinerary").
		First(experience, id).Error
}

// validatePackageInputs enforces what validator tags cannot express: tier
// bracket sanity (maxAge > minAge when bounded).
func validatePackageInputs(packages []PackageOptionInput) string {
	for _, p := range packages {
		for _, c := range p.AgeCategories {
			if c.MaxAge != nil && *c.MaxAge <= c.MinAge {
				return "age category '" + c.Label + "' has maxAge <= minAge"
			}
		}
	}
	return ""
}

func insertPackages(tx *gorm.DB, experienceID uint, inputs []PackageOptionInput) error {
	for _, in := range inputs {
		cats := make([]booking.AgeCategory, 0, len(in.AgeCategories))
		for _, c := range in.AgeCategories {
			cats = append(cats, booking.AgeCategory{
				Label:  c.Label,
				MinAge: c.MinAge,
				MaxAge: c.MaxAge,
				Price:  c.Price,
			})
		}
		// Synthetic tier ids are assigned once, on insert, so headcount keys
		// stay stable for the lifetime of this package row. An empty tier
		// list stays empty here; the read path substitutes the default
		// schedule using the experience's live base price.
		if len(cats) > 0 {
			cats = booking.NormalizeCategories(cats, 0)
		}

		pkg := models.PackageOption{
			ExperienceID:        experienceID,
			Name:                in.Name,
			Description:         in.Description,
			MeetingAddress:      in.MeetingAddress,
			MeetingLat:          in.MeetingLat,
			MeetingLng:          in.MeetingLng,
			MeetingDetails:      in.MeetingDetails,
			AgeCategories:       marshalJSONColumn(cats),
			Inclusions:          marshalJSONColumn(in.Inclusions),
			Exclusions:          marshalJSONColumn(in.Exclusions),
			AdditionalInfo:      in.AdditionalInfo,
			UnavailableDates:    marshalJSONColumn(in.UnavailableDates),
			UnavailableWeekdays: marshalJSONColumn(in.UnavailableWeekdays),
		}
		if err := tx.Create(&pkg).Error; err != nil {
			return err
		}

		for _, s := range in.TimeSlots {
			slot := models.StartEndTime{
				PackageOptionID: pkg.ID,
				StartTime:       s.StartTime,
				EndTime:         s.EndTime,
				Capacity:        s.Capacity,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		for _, st := range in.Itinerary {
			step := models.ItineraryStep{
				PackageOptionID: pkg.ID,
				Title:           st.Title,
				Description:     st.Description,
				DurationLabel:   st.DurationLabel,
				DayNumber:       st.DayNumber,
				OrderIndex:      st.OrderIndex,
			}
			if err := tx.Create(&step).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func deletePackages(tx *gorm.DB, experienceID uint) error {
	var packageIDs []uint
	if err := tx.Model(&models.PackageOption{}).
		Where("experience_id = ?", experienceID).
		Pluck("id", &packageIDs).Error; err != nil {
		return err
	}
	if len(packageIDs) == 0 {
		return nil
	}
	if err := tx.Where("package_option_id IN ?", packageIDs).Delete(&models.StartEndTime{}).Error; err != nil {
		return err
	}
	if err := tx.Where("package_option_id IN ?", packageIDs).Delete(&models.ItineraryStep{}).Error; err != nil {
		return err
	}
	return tx.Where("experience_id = ?", experienceID).Delete(&models.PackageOption{}).Error
}

func marshalJSONColumn(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
