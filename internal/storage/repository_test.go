package storage

import (
	"context"
	"testing"

	"financie/internal/core"
	"financie/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(DefaultDSN)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryAddListRemove(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	a, err := repo.Add(ctx, core.Draft{
		Description: "Aluguel",
		Amount:      core.Money{Cents: 150000},
		Kind:        core.KindExpense,
		Category:    "Moradia",
		Date:        core.NewDate(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := repo.Add(ctx, core.Draft{
		Description: "Salário",
		Amount:      core.Money{Cents: 500000},
		Kind:        core.KindIncome,
		Category:    "Salário",
		Date:        core.NewDate(2025, 2, 5),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[1].Kind != core.KindExpense || list[1].Amount.Cents != 150000 || list[1].Date.ISO() != "2025-02-01" {
		t.Fatalf("record not round-tripped: %+v", list[1])
	}

	removed, err := repo.Remove(ctx, a.ID)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = repo.Remove(ctx, a.ID)
	if err != nil || removed {
		t.Fatalf("second removal must be a no-op, got removed=%v err=%v", removed, err)
	}

	list, _ = repo.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
}

func TestSQLiteRepositorySeed(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if err := records.Seed(ctx, repo, core.SeedDrafts(core.NewDate(2025, 1, 1))); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Description != "Salário" || list[4].Description != "Internet" {
		t.Fatalf("unexpected order: %s ... %s", list[0].Description, list[4].Description)
	}
	if got := core.TotalExpenses(list).Cents; got != 220000 {
		t.Fatalf("expected expenses 220000, got %d", got)
	}
	if err := repo.HealthCheck(ctx); err != nil {
		t.Fatalf("health check: %v", err)
	}
}
