// internal/infra/telegram/payment_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"church_finance_bot/internal/app"
	"church_finance_bot/internal/domain/reminder"
	"church_finance_bot/internal/domain/schedule"
	idb "church_finance_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterPaymentHandlers wires /pay, /check_reminders and the "Show report"
// button that comes with every reminder alert.
func RegisterPaymentHandlers(
	ctx context.Context,
	b *telebot.Bot,
	paymentService *app.PaymentService,
	reminderService *app.ReminderService,
	adminTelegramID int64,
	location *time.Location,
	baseLogger *logrus.Entry,
) {
	b.Handle("/pay", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/pay",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		args, err := parsePay(c.Args())
		if err != nil {
			return c.Send(fmt.Sprintf("Invalid format: %v", err))
		}
		handlerLogger = handlerLogger.WithField("item_id", args.id)

		res, err := paymentService.MarkPaid(ctx, args.id, args.amount, args.paidOn)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, idb.ErrScheduledItemNotFound):
				logWithError.Warn("Item to pay not found")
				return c.Send(fmt.Sprintf("No scheduled item with ID %s.", args.id))
			case errors.Is(err, idb.ErrScheduledItemChanged):
				logWithError.Warn("Item changed while settling")
				return c.Send("The item was changed while recording the payment and nothing was posted. Check /list_items and try again.")
			case errors.Is(err, schedule.ErrInactiveItem):
				logWithError.Warn("Payment on inactive item")
				return c.Send("This item is no longer active and cannot be paid.")
			case errors.Is(err, app.ErrInvalidPayment):
				return c.Send(fmt.Sprintf("Error: %v", err))
			default:
				logWithError.Error("Failed to settle scheduled item")
				return c.Send("An error occurred while recording the payment. Please try again later.")
			}
		}

		tx := res.Transaction
		msg := fmt.Sprintf("Recorded %s of %s on %s.", tx.Description, tx.Amount.StringFixed(2), tx.Date.Format(schedule.DateLayout))
		if res.Outcome == schedule.OutcomeRenewed {
			msg += fmt.Sprintf("\nNext occurrence due %s.", res.Next.DueDate.Format(schedule.DateLayout))
		} else {
			msg += "\nThis schedule is now complete."
		}
		return c.Send(msg)
	})

	b.Handle("/check_reminders", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/check_reminders",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		res, err := reminderService.RunCheck(ctx, schedule.Today(location))
		if err != nil {
			handlerLogger.WithError(err).Error("Manual reminder check failed")
			return c.Send("An error occurred while checking reminders.")
		}
		switch {
		case res.Delivered:
			return nil // The alert itself is the answer.
		case res.Alert != nil:
			return c.Send("Reminders are due but could not be delivered to the notification chat.\n" + res.Alert.Text())
		default:
			return c.Send("Nothing new to remind today.")
		}
	})

	b.Handle(&telebot.Btn{Unique: app.ReportCallbackUnique}, reportCallback(ctx, reminderService, adminTelegramID, location, baseLogger))
}

// reportSender is the part of app.ReminderService the report button uses.
type reportSender interface {
	SendReport(ctx context.Context, today time.Time) (reminder.Report, error)
}

func reportCallback(ctx context.Context, reports reportSender, adminTelegramID int64, location *time.Location, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "reminder_report",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Respond(&telebot.CallbackResponse{Text: unauthorizedReply})
		}
		if _, err := reports.SendReport(ctx, schedule.Today(location)); err != nil {
			handlerLogger.WithError(err).Error("Failed to deliver reminder report")
			return c.Respond(&telebot.CallbackResponse{Text: "Could not send the report."})
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Report sent."})
	}
}
