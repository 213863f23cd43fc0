package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nexa-backend/models"
)

// TelegramNotifier pushes owner notifications to a Telegram chat. Constructed
// disabled when no token is configured; sends are best-effort.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		log.Println("⚠️  Telegram not configured, owner chat notifications disabled")
		return &TelegramNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) LeadCreated(lead models.Lead, confirmURL, cancelURL string) {
	n.send(fmt.Sprintf(
		"*New lead (pending)*\n%s — %s\n%s at %s\nPhone: %s\n\n[Confirm](%s) | [Cancel](%s)",
		lead.Name, lead.Service, lead.AppointmentDate, lead.AppointmentTime, lead.Phone,
		confirmURL, cancelURL,
	))
}

func (n *TelegramNotifier) LeadConfirmed(lead models.Lead) {
	n.send(fmt.Sprintf("*Booking confirmed*\n%s — %s at %s", lead.Name, lead.AppointmentDate, lead.AppointmentTime))
}

func (n *TelegramNotifier) LeadCancelled(lead models.Lead) {
	n.send(fmt.Sprintf("*Booking cancelled*\n%s — %s at %s", lead.Name, lead.AppointmentDate, lead.AppointmentTime))
}

func (n *TelegramNotifier) send(text string) {
	if n.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("❌ Telegram notification failed: %v", err)
	}
}
