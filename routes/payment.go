package routes

import (
	"crypto/subtle"
	"os"

	"tripmarket-server/models"
	"tripmarket-server/services"
	"tripmarket-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/sirupsen/logrus"
)

type PaymentWebhookInput struct {
	Reference string  `json:"reference" validate:"required"`
	Event     string  `json:"event" validate:"required"`
	Amount    float64 `json:"amount"`
}

// PaymentWebhook receives payment processor callbacks, authenticated by a
// shared secret header. Unknown references and non-success events are acked
// with 200 anyway so the processor stops retrying; only a bad secret is
// rejected.
func PaymentWebhook(ctx iris.Context) {
	secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	provided := ctx.GetHeader("X-Webhook-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(provided)) != 1 {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "invalid webhook secret"})
		return
	}

	var input PaymentWebhookInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "invalid payload"})
		return
	}

	if input.Event != "payment.succeeded" {
		logrus.WithFields(logrus.Fields{
			"event":     input.Event,
			"reference": input.Reference,
		}).Info("ignoring payment webhook event")
		ctx.JSON(iris.Map{"success": true})
		return
	}

	var paidBooking models.Booking
	if err := storage.DB.Where("reference = ?", input.Reference).First(&paidBooking).Error; err != nil {
		logrus.WithField("reference", input.Reference).Warn("payment webhook for unknown reference")
		ctx.JSON(iris.Map{"success": true})
		return
	}

	if paidBooking.PaymentStatus == models.PaymentStatusPaid {
		ctx.JSON(iris.Map{"success": true})
		return
	}

	paidBooking.PaymentStatus = models.PaymentStatusPaid
	paidBooking.Status = models.BookingStatusConfirmed
	if err := storage.DB.Save(&paidBooking).Error; err != nil {
		logrus.WithError(err).Error("failed to mark booking paid")
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "failed to update booking"})
		return
	}

	go services.NewNotificationService().NotifyPaymentReceived(paidBooking)

	ctx.JSON(iris.Map{"success": true})
}
