package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"church_finance_bot/internal/app"
	"church_finance_bot/internal/domain/schedule"
	idb "church_finance_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedReply = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers the schedule management commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, adminTelegramID int64, baseLogger *logrus.Entry) {
	addItem := func(command string, kind schedule.Kind) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			handlerLogger := baseLogger.WithFields(logrus.Fields{
				"handler":   command,
				"sender_id": c.Sender().ID,
			})
			handlerLogger.Info("Command received")

			if c.Sender().ID != adminTelegramID {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send(unauthorizedReply)
			}

			input, err := parseNewItem(kind, c.Args())
			if err != nil {
				handlerLogger.WithError(err).Warn("Invalid command format")
				return c.Send(fmt.Sprintf("Invalid format: %v\nUsage: %s %s", err, command, addItemUsage))
			}

			item, err := adminService.AddScheduledItem(ctx, c.Sender().ID, input)
			if err != nil {
				logWithError := handlerLogger.WithError(err)
				switch {
				case errors.Is(err, app.ErrAdminNotAuthorized):
					logWithError.Warn("Admin not authorized (service level)")
					return c.Send(unauthorizedReply)
				case errors.Is(err, schedule.ErrInvalidItem):
					logWithError.Warn("Rejected scheduled item")
					return c.Send(fmt.Sprintf("Error: %v", err))
				default:
					logWithError.Error("Failed to add scheduled item")
					return c.Send("An error occurred while saving the item. Please try again later.")
				}
			}

			handlerLogger.WithField("item_id", item.ID).Info("Scheduled item added")
			return c.Send("Scheduled:\n" + formatItem(item))
		}
	}

	b.Handle("/add_expense", addItem("/add_expense", schedule.KindExpense))
	b.Handle("/add_income", addItem("/add_income", schedule.KindIncome))

	b.Handle("/cancel_item", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/cancel_item",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Invalid format. Usage: /cancel_item <item-id>")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			handlerLogger.WithField("arg", args[0]).Warn("Invalid item ID format")
			return c.Send("Error: the item ID is not valid.")
		}
		handlerLogger = handlerLogger.WithField("item_id", id)

		item, err := adminService.CancelScheduledItem(ctx, c.Sender().ID, id)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(unauthorizedReply)
			case errors.Is(err, idb.ErrScheduledItemNotFound):
				logWithError.Warn("Item to cancel not found")
				return c.Send(fmt.Sprintf("No scheduled item with ID %s.", id))
			case errors.Is(err, app.ErrItemAlreadyInactive):
				logWithError.Warn("Item already inactive")
				return c.Send(fmt.Sprintf("%q was already cancelled or completed.", item.Title))
			default:
				logWithError.Error("Failed to cancel scheduled item")
				return c.Send("An error occurred while cancelling the item. Please try again later.")
			}
		}

		handlerLogger.Info("Scheduled item cancelled")
		return c.Send(fmt.Sprintf("%q cancelled. It will not be renewed or reminded again.", item.Title))
	})

	b.Handle("/list_items", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_items",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		listType := "active"
		if args := c.Args(); len(args) > 0 {
			listType = strings.ToLower(args[0])
		}
		handlerLogger = handlerLogger.WithField("list_type", listType)

		var items []*schedule.Item
		var err error
		var title string

		switch listType {
		case "active":
			title = "Active scheduled items"
			items, err = adminService.ListActiveItems(ctx, c.Sender().ID)
		case "all":
			title = "All scheduled items"
			items, err = adminService.ListAllItems(ctx, c.Sender().ID)
		default:
			handlerLogger.Warn("Invalid list type argument")
			return c.Send("Invalid argument. Use 'active' or 'all', or leave it empty for active items.")
		}

		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(unauthorizedReply)
			}
			logWithError.Error("Failed to list scheduled items")
			return c.Send("An error occurred while listing items. Please try again later.")
		}

		if len(items) == 0 {
			return c.Send("No scheduled items found.")
		}
		handlerLogger.WithField("items_count", len(items)).Info("Listed scheduled items")

		var response strings.Builder
		response.WriteString(fmt.Sprintf("--- %s ---\n", title))
		for _, it := range items {
			response.WriteString(formatItem(it))
			response.WriteString("\n")
		}
		return c.Send(response.String())
	})
	b.Handle("/history", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/history",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Invalid format. Usage: /history <item-id>")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return c.Send("Error: the item ID is not valid.")
		}

		item, txs, err := adminService.ItemHistory(ctx, c.Sender().ID, id)
		if err != nil {
			logWithError := handlerLogger.WithError(err).WithField("item_id", id)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				return c.Send(unauthorizedReply)
			case errors.Is(err, idb.ErrScheduledItemNotFound):
				return c.Send(fmt.Sprintf("No scheduled item with ID %s.", id))
			default:
				logWithError.Error("Failed to load item history")
				return c.Send("An error occurred while loading the history. Please try again later.")
			}
		}
		return c.Send(formatHistory(item, txs))
	})
}
