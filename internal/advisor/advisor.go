// Package advisor produces a short financial tip from the expense breakdown.
//
// Tip never fails: every path ends in a user-facing string, and Outcome.Kind
// tells whether it was generated or one of the fixed fallback messages.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"financie/internal/core"
)

const (
	MsgNotConfigured = "API Key not configured. Please set up your API_KEY environment variable to use AI features."
	MsgNoExpenses    = "Adicione algumas despesas para receber uma dica financeira personalizada."
	MsgUnavailable   = "Desculpe, não consegui gerar uma dica no momento. Tente novamente mais tarde."
)

// ErrEmptyResponse is returned by generators that got a reply without text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generator sends a prompt to a text-generation service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type OutcomeKind int

const (
	OutcomeNotConfigured OutcomeKind = iota
	OutcomeNoExpenses
	OutcomeGenerated
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNotConfigured:
		return "not_configured"
	case OutcomeNoExpenses:
		return "no_expenses"
	case OutcomeGenerated:
		return "generated"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the text to show and how it was obtained.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// Fallback reports whether Text is one of the fixed messages.
func (o Outcome) Fallback() bool {
	return o.Kind != OutcomeGenerated
}

type Advisor struct {
	gen    Generator
	logger *slog.Logger
}

// New returns an advisor. A nil generator means no credential is configured
// and every tip is MsgNotConfigured.
func New(gen Generator, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{gen: gen, logger: logger}
}

// Configured reports whether tips can reach a generator.
func (a *Advisor) Configured() bool {
	return a.gen != nil
}

// Tip asks the generator for advice on the given expense breakdown.
func (a *Advisor) Tip(ctx context.Context, breakdown core.Breakdown) Outcome {
	if a.gen == nil {
		return Outcome{Kind: OutcomeNotConfigured, Text: MsgNotConfigured}
	}
	if len(breakdown) == 0 {
		return Outcome{Kind: OutcomeNoExpenses, Text: MsgNoExpenses}
	}

	text, err := a.gen.Generate(ctx, BuildPrompt(breakdown))
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to generate financial tip",
			"error", err, "categories", len(breakdown))
		return Outcome{Kind: OutcomeFailed, Text: MsgUnavailable}
	}
	return Outcome{Kind: OutcomeGenerated, Text: strings.TrimSpace(text)}
}

const promptTemplate = `Você é um consultor financeiro amigável e prestativo para usuários no Brasil.
Com base no seguinte resumo de despesas mensais, forneça uma dica financeira curta e prática.
A moeda é o Real Brasileiro (BRL). Seja encorajador e conciso.

Resumo das Despesas:
%s

Sua dica:`

// BuildPrompt renders the pt-BR prompt with the breakdown as indented JSON,
// keeping the breakdown order.
func BuildPrompt(breakdown core.Breakdown) string {
	return strings.Replace(promptTemplate, "%s", breakdownJSON(breakdown), 1)
}

func breakdownJSON(breakdown core.Breakdown) string {
	if len(breakdown) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for i, c := range breakdown {
		key, _ := json.Marshal(c.Name)
		b.WriteString("  ")
		b.Write(key)
		b.WriteString(": ")
		b.WriteString(c.Amount.Reais().String())
		if i < len(breakdown)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}
