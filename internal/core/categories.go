package core

var (
	expenseCategories = []string{"Alimentação", "Transporte", "Moradia", "Lazer", "Saúde", "Outros"}
	incomeCategories  = []string{"Salário", "Freelance", "Investimentos", "Outros"}
)

// SuggestedCategories returns the categories offered by the form for a kind.
// Categories are free text; these are only suggestions.
func SuggestedCategories(kind Kind) []string {
	var src []string
	switch kind {
	case KindIncome:
		src = incomeCategories
	case KindExpense:
		src = expenseCategories
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// SeedDrafts returns the example records loaded at startup, in display order.
func SeedDrafts(date Date) []Draft {
	return []Draft{
		{Description: "Salário", Amount: Money{Cents: 500000}, Kind: KindIncome, Category: "Salário", Date: date},
		{Description: "Aluguel", Amount: Money{Cents: 150000}, Kind: KindExpense, Category: "Moradia", Date: date},
		{Description: "Supermercado", Amount: Money{Cents: 60000}, Kind: KindExpense, Category: "Alimentação", Date: date},
		{Description: "Projeto Freelance", Amount: Money{Cents: 80000}, Kind: KindIncome, Category: "Freelance", Date: date},
		{Description: "Internet", Amount: Money{Cents: 10000}, Kind: KindExpense, Category: "Moradia", Date: date},
	}
}
