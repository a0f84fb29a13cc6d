package routes

import (
	"strings"

	"tripmarket-server/storage"
	"tripmarket-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
)

type UploadImageInput struct {
	Image string `json:"image" validate:"required"` // base64, optionally a data URL
	Name  string `json:"name"`
}

// UploadExperienceImage pushes a base64-encoded image to the storage bucket
// and returns its public URL. Names are regenerated server-side so clients
// cannot overwrite each other's objects.
func UploadExperienceImage(ctx iris.Context) {
	var input UploadImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	ext := "jpg"
	if strings.HasPrefix(input.Image, "data:image/png") {
		ext = "png"
	} else if strings.HasPrefix(input.Image, "data:image/webp") {
		ext = "webp"
	}

	url := storage.UploadBase64Image(input.Image, uuid.NewString()+"."+ext)
	if url == "" {
		ctx.StatusCode(iris.StatusBadGateway)
		ctx.JSON(iris.Map{"message": "image upload failed"})
		return
	}

	ctx.JSON(iris.Map{"success": true, "url": url})
}
