package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"financie/internal/advisor"
)

func TestModelName(t *testing.T) {
	cases := map[string]string{
		"":                        "gemini-2.5-flash",
		"gemini-2.5-flash":        "gemini-2.5-flash",
		"models/gemini-2.0-flash": "gemini-2.0-flash",
		" gemini-pro ":            "gemini-pro",
	}
	for in, want := range cases {
		if got := modelName(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: "Reduza "}, {Text: "o lazer. "}},
			},
		}},
	}
	got, err := responseText(resp)
	if err != nil || got != "Reduza o lazer." {
		t.Fatalf("unexpected result %q (err=%v)", got, err)
	}
}

func TestResponseTextEmpty(t *testing.T) {
	cases := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{
			Parts: []*genai.Part{{Text: "  "}},
		}}}},
	}
	for i, resp := range cases {
		if _, err := responseText(resp); !errors.Is(err, advisor.ErrEmptyResponse) {
			t.Fatalf("case %d: expected ErrEmptyResponse, got %v", i, err)
		}
	}
}

func TestResponseTextBlocked(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}
	if _, err := responseText(resp); err == nil || errors.Is(err, advisor.ErrEmptyResponse) {
		t.Fatalf("expected block error, got %v", err)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(context.Background(), " ", "", ""); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestGenerateAgainstServer(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Corte gastos com delivery."}]}}]}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), "k", "gemini-2.5-flash", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	tip, err := c.Generate(context.Background(), "Dê uma dica")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tip != "Corte gastos com delivery." {
		t.Errorf("tip = %q", tip)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
}
