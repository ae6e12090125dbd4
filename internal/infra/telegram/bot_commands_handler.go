// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == adminTelegramID {
			return c.Send("Hello, " + c.Sender().FirstName + "! I keep track of the church's scheduled bills and income. Use /help for the list of commands.")
		}
		logCtx.Info("User is not the treasurer")
		return c.Send("Hello! This bot is managed by the church treasurer. Ask them for access if you need it.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != adminTelegramID {
			return c.Send("No commands are available to you.")
		}

		var helpText strings.Builder
		helpText.WriteString("Treasurer commands:\n\n")
		helpText.WriteString("`/add_expense " + addItemUsage + "`\n - Schedule a bill. `:N` limits it to N payments.\n\n")
		helpText.WriteString("`/add_income " + addItemUsage + "`\n - Schedule expected income.\n\n")
		helpText.WriteString("`/pay <item-id> [amount] [YYYY-MM-DD]`\n - Record a payment and roll the schedule forward.\n\n")
		helpText.WriteString("`/cancel_item <item-id>`\n - Stop a schedule.\n\n")
		helpText.WriteString("`/list_items [active|all]`\n - Show scheduled items.\n\n")
		helpText.WriteString("`/history <item-id>`\n - Show payments recorded for an item.\n\n")
		helpText.WriteString("`/check_reminders`\n - Check for overdue and upcoming bills now (at most one alert per day).\n\n")
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
