package http

import (
	"net/http"

	"financie/internal/advisor"
	"financie/internal/core"
	"financie/internal/log"
)

type summaryView struct {
	Income       string
	Expenses     string
	Balance      string
	Negative     bool
	IncomeCount  int
	ExpenseCount int
}

type recordView struct {
	ID          string
	Description string
	Category    string
	Date        string
	Amount      string
	Income      bool
}

type recordsView struct {
	Income   []recordView
	Expenses []recordView
}

type breakdownRow struct {
	Name   string
	Amount string
	Width  int
	Share  int
}

type breakdownView struct {
	Rows  []breakdownRow
	Total string
}

type tipView struct {
	Status  string
	Pending bool
	Failed  bool
	Text    string
}

type formView struct {
	Today      string
	Kind       string
	Categories []string
}

type dashboardView struct {
	Summary   summaryView
	Records   recordsView
	Breakdown breakdownView
	Tip       tipView
	Form      formView
}

func newSummaryView(sum core.Summary) summaryView {
	return summaryView{
		Income:       core.FormatBRL(sum.TotalIncome),
		Expenses:     core.FormatBRL(sum.TotalExpenses),
		Balance:      core.FormatBRL(sum.Balance),
		Negative:     sum.Balance.IsNegative(),
		IncomeCount:  sum.IncomeCount,
		ExpenseCount: sum.ExpenseCount,
	}
}

func newRecordView(r core.Record) recordView {
	return recordView{
		ID:          r.ID,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date.Display(),
		Amount:      core.FormatBRL(r.Amount.Abs()),
		Income:      r.Kind == core.KindIncome,
	}
}

func newRecordsView(list []core.Record) recordsView {
	var v recordsView
	for _, r := range list {
		if r.Kind == core.KindIncome {
			v.Income = append(v.Income, newRecordView(r))
		} else {
			v.Expenses = append(v.Expenses, newRecordView(r))
		}
	}
	return v
}

func newBreakdownView(b core.Breakdown, total core.Money) breakdownView {
	maxCents := b.Max().Cents
	v := breakdownView{Total: core.FormatBRL(total)}
	for _, c := range b {
		v.Rows = append(v.Rows, breakdownRow{
			Name:   c.Name,
			Amount: core.FormatBRL(c.Amount),
			Width:  barWidth(c.Amount.Cents, maxCents),
			Share:  share(c.Amount.Cents, total.Cents),
		})
	}
	return v
}

func newTipView(st advisor.State) tipView {
	return tipView{
		Status:  st.Status.String(),
		Pending: st.Pending(),
		Failed:  st.Status == advisor.StatusFailed,
		Text:    st.Text,
	}
}

func newFormView(kind core.Kind) formView {
	if !kind.Valid() {
		kind = core.KindExpense
	}
	return formView{
		Today:      core.Today().ISO(),
		Kind:       kind.String(),
		Categories: core.SuggestedCategories(kind),
	}
}

// dashboard gathers every view model from a single store snapshot.
func (s *Server) dashboard(r *http.Request) (dashboardView, error) {
	sum, list, err := s.records.Summary(r.Context())
	if err != nil {
		return dashboardView{}, err
	}
	return dashboardView{
		Summary:   newSummaryView(sum),
		Records:   newRecordsView(list),
		Breakdown: newBreakdownView(sum.Breakdown, sum.TotalExpenses),
		Tip:       newTipView(s.tips.State()),
		Form:      newFormView(core.KindExpense),
	}, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	view, err := s.dashboard(r)
	if err != nil {
		s.listFailed(w, r, err)
		return
	}
	s.render(w, r, "index.html", view)
}

func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard(r)
	if err != nil {
		s.listFailed(w, r, err)
		return
	}
	s.render(w, r, "summary", view.Summary)
}

func (s *Server) handleRecordsPartial(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard(r)
	if err != nil {
		s.listFailed(w, r, err)
		return
	}
	s.render(w, r, "records", view.Records)
}

func (s *Server) handleBreakdownPartial(w http.ResponseWriter, r *http.Request) {
	view, err := s.dashboard(r)
	if err != nil {
		s.listFailed(w, r, err)
		return
	}
	s.render(w, r, "breakdown", view.Breakdown)
}

// handleCategoriesPartial returns the suggested categories for a kind as <option> elements.
func (s *Server) handleCategoriesPartial(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		kind = core.KindExpense
	}
	s.render(w, r, "categories", newFormView(kind))
}

func (s *Server) listFailed(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list records",
		log.FieldOperation, log.OpList, log.FieldError, err)
	InternalServerError("Erro ao carregar as transações").Write(w)
}
