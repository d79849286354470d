package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService — ops-канал для событий, которые нельзя показывать клиенту
// (например, недоставленное письмо со сбросом пароля).
type AlertService interface {
	NotifyResetEmailFailure(email string, cause error)
}

type telegramAlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramAlertService возвращает nil, если интеграция не настроена —
// вызывающий код обязан это учитывать (как с integrationsHandler).
func NewTelegramAlertService(botToken string, chatID int64) AlertService {
	if botToken == "" || chatID == 0 {
		log.Printf("[tg][alerts] disabled: token or chat_id not configured")
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][alerts] disabled: bot init failed: %v", err)
		return nil
	}
	return &telegramAlertService{bot: bot, chatID: chatID}
}

func (t *telegramAlertService) NotifyResetEmailFailure(email string, cause error) {
	text := fmt.Sprintf("⚠️ reset email undelivered\nto: %s\nerror: %v", email, cause)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][alerts] send failed: %v", err)
	}
}
