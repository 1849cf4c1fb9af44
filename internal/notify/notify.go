// Package notify delivers due-word reminders.
package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// reminderText formats the reminder sent for count due words.
func reminderText(count int) string {
	if count == 1 {
		return "📚 1 word is due for review."
	}
	return fmt.Sprintf("📚 %d words are due for review.", count)
}

// Log writes reminders to the standard logger.
type Log struct{}

// NotifyDue implements scheduler.Notifier.
func (Log) NotifyDue(_ context.Context, count int) error {
	log.Print(reminderText(count))
	return nil
}

// Telegram sends reminders to one chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects to the Telegram Bot API.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return NewTelegramWithAPI(api, chatID), nil
}

// NewTelegramWithAPI wraps an existing bot client.
func NewTelegramWithAPI(api *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

// NotifyDue implements scheduler.Notifier.
func (t *Telegram) NotifyDue(_ context.Context, count int) error {
	msg := tgbotapi.NewMessage(t.chatID, reminderText(count))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram reminder: %w", err)
	}
	return nil
}
