package services

import (
	"fmt"
	"os"
	"sync"

	"tripmarket-server/models"
	"tripmarket-server/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// NotificationService fans a booking event out to the traveler (in-app row)
// and the hosting business (Telegram, when the owner linked a chat).
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

var (
	botOnce sync.Once
	bot     *tgbotapi.BotAPI
)

func telegramBot() *tgbotapi.BotAPI {
	botOnce.Do(func() {
		token := os.Getenv("TELEGRAM_BOT_TOKEN")
		if token == "" {
			logrus.Warn("TELEGRAM_BOT_TOKEN not set, host alerts disabled")
			return
		}
		b, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			logrus.WithError(err).Error("failed to create telegram bot")
			return
		}
		bot = b
	})
	return bot
}

// NotifyBookingCreated writes the traveler's confirmation row and alerts the
// host. Intended to run on its own goroutine; all failures are logged only.
func (ns *NotificationService) NotifyBookingCreated(booking models.Booking, experience models.Experience) {
	notification := models.Notification{
		UserID: booking.UserID,
		Type:   "booking_created",
		Title:  "Booking received",
		Message: fmt.Sprintf("Your booking for '%s' on %s is awaiting payment. Total: %.2f",
			experience.Title,
			booking.SelectedDate.Format("January 2, 2006"),
			booking.TotalPrice),
		RefType: "booking",
		RefID:   booking.ID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		logrus.WithError(err).Error("failed to write booking notification")
	}

	ns.alertHost(experience, fmt.Sprintf(
		"New booking: %s\nDate: %s %s\nParticipants: %d\nTotal: %.2f\nRef: %s",
		experience.Title,
		booking.SelectedDate.Format("2006-01-02"),
		booking.StartTime,
		booking.ParticipantCount,
		booking.TotalPrice,
		booking.Reference,
	))
}

// NotifyBookingCancelled mirrors NotifyBookingCreated for cancellations.
func (ns *NotificationService) NotifyBookingCancelled(booking models.Booking, experience models.Experience) {
	notification := models.Notification{
		UserID: booking.UserID,
		Type:   "booking_cancelled",
		Title:  "Booking cancelled",
		Message: fmt.Sprintf("Your booking for '%s' on %s was cancelled.",
			experience.Title,
			booking.SelectedDate.Format("January 2, 2006")),
		RefType: "booking",
		RefID:   booking.ID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		logrus.WithError(err).Error("failed to write cancellation notification")
	}

	ns.alertHost(experience, fmt.Sprintf(
		"Booking cancelled: %s on %s (ref %s)",
		experience.Title,
		booking.SelectedDate.Format("2006-01-02"),
		booking.Reference,
	))
}

// NotifyPaymentReceived marks the payment milestone for the traveler.
func (ns *NotificationService) NotifyPaymentReceived(booking models.Booking) {
	notification := models.Notification{
		UserID:  booking.UserID,
		Type:    "booking_paid",
		Title:   "Payment received",
		Message: fmt.Sprintf("Payment for booking %s confirmed. See you there!", booking.Reference),
		RefType: "booking",
		RefID:   booking.ID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		logrus.WithError(err).Error("failed to write payment notification")
	}
}

func (ns *NotificationService) alertHost(experience models.Experience, text string) {
	var host models.User
	if err := storage.DB.Select("id, telegram_chat_id").First(&host, experience.HostID).Error; err != nil {
		logrus.WithError(err).WithField("hostID", experience.HostID).Error("host lookup failed")
		return
	}
	if host.TelegramChatID == nil {
		return
	}

	b := telegramBot()
	if b == nil {
		return
	}
	if _, err := b.Send(tgbotapi.NewMessage(*host.TelegramChatID, text)); err != nil {
		logrus.WithError(err).Error("telegram host alert failed")
	}
}
