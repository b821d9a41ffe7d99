package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Breakdown lists expense totals per category in first-seen order.
type Breakdown []CategoryAmount

// Summary is the set of aggregates shown on the dashboard.
type Summary struct {
	TotalIncome   Money
	TotalExpenses Money
	Balance       Money
	IncomeCount   int
	ExpenseCount  int
	Breakdown     Breakdown
}

// TotalIncome sums the magnitude of all income records.
func TotalIncome(records []Record) Money {
	return totalOf(records, KindIncome)
}

// TotalExpenses sums the magnitude of all expense records.
func TotalExpenses(records []Record) Money {
	return totalOf(records, KindExpense)
}

// Balance is income minus expenses and may be negative.
func Balance(records []Record) Money {
	return TotalIncome(records).Sub(TotalExpenses(records))
}

func totalOf(records []Record, kind Kind) Money {
	var total Money
	for _, r := range records {
		if r.Kind == kind {
			total = total.Add(r.Amount.Abs())
		}
	}
	return total
}

// CategoryBreakdown groups expense records by category. Categories appear in
// the order they are first met while walking records. Income is ignored.
func CategoryBreakdown(records []Record) Breakdown {
	out := Breakdown{}
	index := make(map[string]int)
	for _, r := range records {
		if r.Kind != KindExpense {
			continue
		}
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryAmount{Name: r.Category})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount.Abs())
	}
	return out
}

// Map returns the breakdown as category -> total.
func (b Breakdown) Map() map[string]Money {
	m := make(map[string]Money, len(b))
	for _, c := range b {
		m[c.Name] = c.Amount
	}
	return m
}

// Max returns the largest category total, zero when empty.
func (b Breakdown) Max() Money {
	var max Money
	for _, c := range b {
		if c.Amount.Cents > max.Cents {
			max = c.Amount
		}
	}
	return max
}

// Summarize computes every aggregate shown on the dashboard.
func Summarize(records []Record) Summary {
	s := Summary{
		TotalIncome:   TotalIncome(records),
		TotalExpenses: TotalExpenses(records),
		Breakdown:     CategoryBreakdown(records),
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	for _, r := range records {
		switch r.Kind {
		case KindIncome:
			s.IncomeCount++
		case KindExpense:
			s.ExpenseCount++
		}
	}
	return s
}

// FilterKind returns the records of the given kind, preserving order.
func FilterKind(records []Record, kind Kind) []Record {
	var out []Record
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
