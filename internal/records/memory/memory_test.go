package memory

import (
	"context"
	"sync"
	"testing"

	"financie/internal/core"
	"financie/internal/records"
)

func draft(desc string, cents int64, kind core.Kind, cat string) core.Draft {
	return core.Draft{
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Kind:        kind,
		Category:    cat,
		Date:        core.NewDate(2025, 5, 1),
	}
}

func TestMemoryStoreAddPrependsAndAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.Add(ctx, draft("a", 100, core.KindExpense, "Lazer"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := s.Add(ctx, draft("b", 200, core.KindIncome, "Salário"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", first.ID, second.ID)
	}

	list, _ := s.List(ctx)
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.Add(ctx, draft("a", 100, core.KindExpense, "Lazer"))
	b, _ := s.Add(ctx, draft("b", 100, core.KindExpense, "Lazer"))

	removed, err := s.Remove(ctx, a.ID)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}

	removed, err = s.Remove(ctx, a.ID)
	if err != nil || removed {
		t.Fatalf("second removal must be a no-op, got removed=%v err=%v", removed, err)
	}
	removed, _ = s.Remove(ctx, "missing")
	if removed || s.Len() != 1 {
		t.Fatal("removing unknown id must not change the store")
	}

	list, _ := s.List(ctx)
	if list[0].ID != b.ID {
		t.Fatalf("wrong record left: %+v", list[0])
	}
}

func TestMemoryStoreListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Add(ctx, draft("a", 100, core.KindExpense, "Lazer"))
	list, _ := s.List(ctx)
	list[0].Description = "changed"
	again, _ := s.List(ctx)
	if again[0].Description != "a" {
		t.Fatal("List must return a copy")
	}
}

func TestSeedKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	drafts := core.SeedDrafts(core.NewDate(2025, 1, 1))
	if err := records.Seed(ctx, s, drafts); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, _ := s.List(ctx)
	if len(list) != len(drafts) {
		t.Fatalf("expected %d records, got %d", len(drafts), len(list))
	}
	for i := range drafts {
		if list[i].Description != drafts[i].Description {
			t.Fatalf("position %d: expected %q, got %q", i, drafts[i].Description, list[i].Description)
		}
	}
	if got := core.Balance(list).Cents; got != 360000 {
		t.Fatalf("expected balance 360000, got %d", got)
	}
}

func TestMemoryStoreConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(ctx, draft("x", 1, core.KindExpense, "Outros"))
		}()
	}
	wg.Wait()
	list, _ := s.List(ctx)
	seen := map[string]bool{}
	for _, r := range list {
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
	if len(list) != 50 {
		t.Fatalf("expected 50 records, got %d", len(list))
	}
}
