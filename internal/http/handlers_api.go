package http

import (
	"net/http"

	"financie/internal/core"
)

type apiRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type apiCategory struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

type apiSummary struct {
	TotalIncomeCents   int64         `json:"total_income_cents"`
	TotalExpensesCents int64         `json:"total_expenses_cents"`
	BalanceCents       int64         `json:"balance_cents"`
	IncomeCount        int           `json:"income_count"`
	ExpenseCount       int           `json:"expense_count"`
	Breakdown          []apiCategory `json:"breakdown"`
}

func toAPIRecord(r core.Record) apiRecord {
	return apiRecord{
		ID:          r.ID,
		Description: r.Description,
		Kind:        r.Kind.String(),
		Category:    r.Category,
		Date:        r.Date.ISO(),
		AmountCents: r.Amount.Cents,
		Amount:      r.Amount.Reais().StringFixed(2),
	}
}

// handleAPIRecords lists records newest first as JSON.
func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	list, err := s.records.List(r.Context())
	if err != nil {
		s.listFailed(w, r, err)
		return
	}
	out := make([]apiRecord, 0, len(list))
	for _, rec := range list {
		out = append(out, toAPIRecord(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	sum, _, err := s.records.Summary(r.Context())
	if err != nil {
		s.listFailed(w, r, err)
		return
	}
	out := apiSummary{
		TotalIncomeCents:   sum.TotalIncome.Cents,
		TotalExpensesCents: sum.TotalExpenses.Cents,
		BalanceCents:       sum.Balance.Cents,
		IncomeCount:        sum.IncomeCount,
		ExpenseCount:       sum.ExpenseCount,
		Breakdown:          make([]apiCategory, 0, len(sum.Breakdown)),
	}
	for _, c := range sum.Breakdown {
		out.Breakdown = append(out.Breakdown, apiCategory{Name: c.Name, AmountCents: c.Amount.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}
