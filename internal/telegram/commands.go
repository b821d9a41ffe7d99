package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financie/internal/core"
)

const usageAdd = "uso: /add <entrada|saida> <valor> <categoria> <descrição>"

const helpText = `Comandos:
/add <entrada|saida> <valor> <categoria> <descrição>
/list
/delete <id>
/summary
/tip`

func (b *Bot) help(context.Context, string) (*reply, error) {
	return &reply{text: helpText}, nil
}

func (b *Bot) addRecord(ctx context.Context, args string) (*reply, error) {
	draft, err := makeDraftFromArgs(args)
	if err != nil {
		return nil, err
	}
	rec, err := b.records.Add(ctx, draft)
	if err != nil {
		return nil, err
	}
	return &reply{text: fmt.Sprintf("%s adicionada: %s %s\nid: %s",
		rec.Kind.Label(), rec.Description, core.FormatBRL(rec.Amount), rec.ID)}, nil
}

func makeDraftFromArgs(args string) (core.Draft, error) {
	parts := strings.Fields(args)
	if len(parts) < 4 {
		return core.Draft{}, errors.New(usageAdd)
	}

	kind, err := core.ParseKind(parts[0])
	if err != nil {
		return core.Draft{}, err
	}
	amount, err := core.ParseAmount(parts[1])
	if err != nil {
		return core.Draft{}, fmt.Errorf("valor inválido %q: %w", parts[1], err)
	}

	return core.Draft{
		Description: strings.Join(parts[3:], " "),
		Amount:      amount,
		Kind:        kind,
		Category:    parts[2],
		Date:        core.Today(),
	}, nil
}

func (b *Bot) listRecords(ctx context.Context, _ string) (*reply, error) {
	_, list, err := b.records.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return &reply{text: "Nenhuma transação registrada."}, nil
	}

	var sb strings.Builder
	for i, r := range list {
		sign := "-"
		if r.Kind == core.KindIncome {
			sign = "+"
		}
		fmt.Fprintf(&sb, "%d. %s %s %s\n   %s - %s\n   id: %s\n",
			i+1, r.Description, sign, core.FormatBRL(r.Amount.Abs()), r.Category, r.Date.Display(), r.ID)
	}
	return &reply{text: sb.String()}, nil
}

func (b *Bot) deleteRecord(ctx context.Context, args string) (*reply, error) {
	if args == "" {
		return nil, errors.New("uso: /delete <id>")
	}
	removed, err := b.records.Remove(ctx, args)
	if err != nil {
		return nil, err
	}
	if !removed {
		return &reply{text: "Nenhuma transação com esse id."}, nil
	}
	return &reply{text: "Transação excluída."}, nil
}

func (b *Bot) summary(ctx context.Context, _ string) (*reply, error) {
	sum, _, err := b.records.Summary(ctx)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total de Entradas: %s\n", core.FormatBRL(sum.TotalIncome))
	fmt.Fprintf(&sb, "Total de Saídas: %s\n", core.FormatBRL(sum.TotalExpenses))
	fmt.Fprintf(&sb, "Balanço: %s\n", core.FormatBRL(sum.Balance))
	if len(sum.Breakdown) > 0 {
		sb.WriteString("\nAnálise de Saídas:\n")
		for _, c := range sum.Breakdown {
			fmt.Fprintf(&sb, "- %s: %s\n", c.Name, core.FormatBRL(c.Amount))
		}
	}
	return &reply{text: sb.String()}, nil
}

// MsgTipPending acknowledges /tip while the advisor works.
const MsgTipPending = "Pensando na melhor dica para você..."

// tip answers at once and sends the tip when the request finishes.
func (b *Bot) tip(ctx context.Context, _ string) (*reply, error) {
	sum, _, err := b.records.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &reply{text: MsgTipPending, followUp: b.tips.Request(sum.Breakdown)}, nil
}
