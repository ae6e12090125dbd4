package telegram

import "gopkg.in/telebot.v3"

// Client delivers chat messages. Reminder alerts and acknowledgement reports
// both go through it; only the destination chat differs.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
