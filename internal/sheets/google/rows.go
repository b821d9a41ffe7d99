package google

import (
	"fmt"
	"strings"

	"financie/internal/core"
	"financie/internal/events"
)

// rowFor lays out A:F as ID, kind label, category, amount, signed amount in
// reais and the event time. The signed column lets a SUM give the balance.
func rowFor(e events.RecordEvent) []any {
	kind := e.Kind
	sign := int64(1)
	if k, err := core.ParseKind(e.Kind); err == nil {
		kind = k.Label()
		if k == core.KindExpense {
			sign = -1
		}
	}
	amount := core.Money{Cents: e.AmountCents}
	signed := core.Money{Cents: sign * e.AmountCents}
	return []any{
		e.RecordID,
		kind,
		e.Category,
		core.FormatBRL(amount),
		signed.Reais().StringFixed(2),
		e.OccurredAt.Format("2006-01-02 15:04:05"),
	}
}

// findRow returns the 1-based sheet row whose first cell equals id, or 0.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}

// a1Range qualifies cells with a quoted sheet name, so names with spaces or
// apostrophes stay valid A1 notation.
func a1Range(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}
