package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"financie/internal/core"
)

func newParser(t *testing.T, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

func TestRequestBodyParser(t *testing.T) {
	form := newParser(t, url.Values{"id": {" abc\x00 "}}.Encode())
	if form.IsJSON() || form.Get("id") != "abc" {
		t.Errorf("form Get = %q", form.Get("id"))
	}

	js := newParser(t, `{"id":"xyz","amount":12.5}`)
	if !js.IsJSON() || js.Get("id") != "xyz" || js.Get("amount") != "12.5" {
		t.Errorf("json values = %q %q", js.Get("id"), js.Get("amount"))
	}
	if js.Get("missing") != "" {
		t.Error("missing key must be empty")
	}

	empty := newParser(t, "")
	if empty.Get("id") != "" {
		t.Error("empty body must yield empty values")
	}

	bad := NewRequestBodyParser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{nope")))
	if bad.Parse() == nil {
		t.Error("malformed JSON must fail")
	}
}

func TestParseRecordDraft(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantErr error
		want    core.Draft
	}{
		{
			name: "valid expense",
			form: url.Values{"kind": {"expense"}, "description": {"Mercado"}, "amount": {"150.00"},
				"category": {"Alimentação"}, "date": {"2026-03-05"}},
			want: core.Draft{Description: "Mercado", Amount: core.Money{Cents: 15000}, Kind: core.KindExpense,
				Category: "Alimentação", Date: core.NewDate(2026, 3, 5)},
		},
		{
			name: "comma decimal income",
			form: url.Values{"kind": {"income"}, "description": {"Bônus"}, "amount": {"1.234,56"},
				"category": {"Salário"}, "date": {"2026-03-05"}},
			want: core.Draft{Description: "Bônus", Amount: core.Money{Cents: 123456}, Kind: core.KindIncome,
				Category: "Salário", Date: core.NewDate(2026, 3, 5)},
		},
		{
			name:    "missing category",
			form:    url.Values{"kind": {"expense"}, "description": {"x"}, "amount": {"1"}},
			wantErr: ErrIncompleteForm,
		},
		{
			name:    "blank description",
			form:    url.Values{"kind": {"expense"}, "description": {"   "}, "amount": {"1"}, "category": {"Lazer"}},
			wantErr: ErrIncompleteForm,
		},
		{
			name:    "bad kind",
			form:    url.Values{"kind": {"gift"}, "description": {"x"}, "amount": {"1"}, "category": {"Lazer"}},
			wantErr: core.ErrInvalidKind,
		},
		{
			name:    "zero amount",
			form:    url.Values{"kind": {"expense"}, "description": {"x"}, "amount": {"0"}, "category": {"Lazer"}},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name: "bad date",
			form: url.Values{"kind": {"expense"}, "description": {"x"}, "amount": {"1"}, "category": {"Lazer"},
				"date": {"05/03/2026"}},
			wantErr: core.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecordDraft(newParser(t, tt.form.Encode()))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Description != tt.want.Description || got.Amount != tt.want.Amount ||
				got.Kind != tt.want.Kind || got.Category != tt.want.Category || got.Date.ISO() != tt.want.Date.ISO() {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRecordDraftDefaultsDateToToday(t *testing.T) {
	p := newParser(t, url.Values{"kind": {"expense"}, "description": {"x"}, "amount": {"1"}, "category": {"Lazer"}}.Encode())
	d, err := ParseRecordDraft(p)
	if err != nil {
		t.Fatal(err)
	}
	if d.Date.ISO() != core.Today().ISO() {
		t.Errorf("date = %s", d.Date.ISO())
	}
}

func TestRequireMethod(t *testing.T) {
	if RequireDeleteOrPOST(httptest.NewRequest(http.MethodDelete, "/", nil)) != nil {
		t.Error("DELETE must be allowed")
	}
	if RequirePOST(httptest.NewRequest(http.MethodGet, "/", nil)) == nil {
		t.Error("GET must be rejected")
	}
}
