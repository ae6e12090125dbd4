package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"church_finance_bot/internal/app"
	"church_finance_bot/internal/domain/ledger"
	"church_finance_bot/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const addItemUsage = "<amount> <YYYY-MM-DD> <none|weekly|monthly|yearly>[:N] <title>"

// parseNewItem reads the arguments of /add_expense and /add_income.
// The optional :N suffix on the recurrence is the number of occurrences.
func parseNewItem(kind schedule.Kind, args []string) (app.NewItemInput, error) {
	if len(args) < 4 {
		return app.NewItemInput{}, fmt.Errorf("expected %s", addItemUsage)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(args[0], ",", "."))
	if err != nil {
		return app.NewItemInput{}, fmt.Errorf("invalid amount %q", args[0])
	}

	due, err := schedule.ParseDate(args[1])
	if err != nil {
		return app.NewItemInput{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[1])
	}

	recName, countStr, hasCount := strings.Cut(args[2], ":")
	rec, ok := schedule.ParseRecurrence(recName)
	if !ok {
		return app.NewItemInput{}, fmt.Errorf("invalid recurrence %q", recName)
	}
	var occurrences int32
	if hasCount {
		n, err := strconv.ParseInt(countStr, 10, 32)
		if err != nil || n <= 0 {
			return app.NewItemInput{}, fmt.Errorf("invalid occurrence count %q", countStr)
		}
		occurrences = int32(n)
	}

	return app.NewItemInput{
		Kind:        kind,
		Title:       strings.Join(args[3:], " "),
		Amount:      amount,
		DueDate:     due,
		Recurrence:  rec,
		Occurrences: occurrences,
	}, nil
}

type payArgs struct {
	id     uuid.UUID
	amount decimal.Decimal // zero means the forecast amount
	paidOn time.Time       // zero means today
}

// parsePay reads /pay <item-id> [amount] [YYYY-MM-DD]. The amount and the
// date may be given in either order since they are unambiguous.
func parsePay(args []string) (payArgs, error) {
	if len(args) < 1 || len(args) > 3 {
		return payArgs{}, fmt.Errorf("expected <item-id> [amount] [YYYY-MM-DD]")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return payArgs{}, fmt.Errorf("invalid item id %q", args[0])
	}
	out := payArgs{id: id}
	for _, a := range args[1:] {
		if d, err := schedule.ParseDate(a); err == nil {
			out.paidOn = d
			continue
		}
		amt, err := decimal.NewFromString(strings.ReplaceAll(a, ",", "."))
		if err != nil || !amt.IsPositive() {
			return payArgs{}, fmt.Errorf("invalid amount or date %q", a)
		}
		out.amount = amt
	}
	return out, nil
}

func formatItem(it *schedule.Item) string {
	status := "inactive"
	if it.IsActive {
		status = "active"
	}
	occ := "indefinite"
	if it.RemainingOccurrences.Valid {
		occ = fmt.Sprintf("%d left", it.RemainingOccurrences.Int32)
	}
	return fmt.Sprintf("%s\n  %s %s | %s | due %s | %s (%s) | %s",
		it.ID, it.Kind, it.Title, it.Amount.StringFixed(2), it.DueDate.Format(schedule.DateLayout),
		strings.ToLower(string(it.Recurrence)), occ, status)
}

func formatHistory(it *schedule.Item, txs []*ledger.PostedTransaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s ---\n", it.Title)
	if len(txs) == 0 {
		b.WriteString("No payments recorded yet.")
		return b.String()
	}
	total := decimal.Zero
	for _, tx := range txs {
		fmt.Fprintf(&b, "%s | %s\n", tx.Date.Format(schedule.DateLayout), tx.Amount.StringFixed(2))
		total = total.Add(tx.Amount)
	}
	fmt.Fprintf(&b, "Total: %s in %d payments", total.StringFixed(2), len(txs))
	return b.String()
}
