package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"financie/internal/core"
)

type fakeGenerator struct {
	calls  atomic.Int32
	text   string
	err    error
	prompt string
	mu     sync.Mutex
	block  chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompt = prompt
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func sampleBreakdown() core.Breakdown {
	return core.Breakdown{
		{Name: "Moradia", Amount: core.Money{Cents: 160000}},
		{Name: "Alimentação", Amount: core.Money{Cents: 60050}},
	}
}

func TestTipNotConfigured(t *testing.T) {
	a := New(nil, nil)
	for _, b := range []core.Breakdown{nil, sampleBreakdown()} {
		out := a.Tip(context.Background(), b)
		if out.Kind != OutcomeNotConfigured || out.Text != MsgNotConfigured {
			t.Fatalf("unexpected outcome: %+v", out)
		}
	}
	if a.Configured() {
		t.Fatal("advisor without generator must not be configured")
	}
}

func TestTipNoExpensesSkipsCall(t *testing.T) {
	gen := &fakeGenerator{text: "x"}
	out := New(gen, nil).Tip(context.Background(), core.Breakdown{})
	if out.Kind != OutcomeNoExpenses || out.Text != MsgNoExpenses {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if gen.calls.Load() != 0 {
		t.Fatalf("expected no call, got %d", gen.calls.Load())
	}
}

func TestTipGenerated(t *testing.T) {
	gen := &fakeGenerator{text: "  Corte gastos com lazer.\n"}
	out := New(gen, nil).Tip(context.Background(), sampleBreakdown())
	if out.Kind != OutcomeGenerated || out.Text != "Corte gastos com lazer." || out.Fallback() {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if gen.calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", gen.calls.Load())
	}
	if !strings.Contains(gen.prompt, `"Moradia": 1600`) || !strings.Contains(gen.prompt, `"Alimentação": 600.5`) {
		t.Fatalf("prompt missing breakdown:\n%s", gen.prompt)
	}
}

func TestTipFailures(t *testing.T) {
	cases := []*fakeGenerator{
		{err: errors.New("quota exceeded")},
		{text: "   "},
	}
	for i, gen := range cases {
		out := New(gen, nil).Tip(context.Background(), sampleBreakdown())
		if out.Kind != OutcomeFailed || out.Text != MsgUnavailable {
			t.Fatalf("case %d: unexpected outcome: %+v", i, out)
		}
	}
}

func TestBuildPromptKeepsOrder(t *testing.T) {
	p := BuildPrompt(sampleBreakdown())
	if strings.Index(p, "Moradia") > strings.Index(p, "Alimentação") {
		t.Fatalf("breakdown order not preserved:\n%s", p)
	}
	if !strings.HasPrefix(p, "Você é um consultor financeiro") || !strings.HasSuffix(p, "Sua dica:") {
		t.Fatalf("unexpected prompt framing:\n%s", p)
	}
	want := "{\n  \"Moradia\": 1600,\n  \"Alimentação\": 600.5\n}"
	if !strings.Contains(p, want) {
		t.Fatalf("expected JSON block %q in:\n%s", want, p)
	}
}

func TestTrackerReady(t *testing.T) {
	gen := &fakeGenerator{text: "Economize.", block: make(chan struct{})}
	tr := NewTracker(New(gen, nil), time.Second)

	if tr.State().Status != StatusIdle {
		t.Fatalf("expected idle, got %v", tr.State().Status)
	}

	done := tr.Request(sampleBreakdown())
	if st := tr.State(); !st.Pending() || st.Text != "" {
		t.Fatalf("expected pending with no text, got %+v", st)
	}

	// A second request while pending joins the same call.
	joined := tr.Request(sampleBreakdown())
	close(gen.block)

	st := <-done
	if st.Status != StatusReady || st.Text != "Economize." {
		t.Fatalf("unexpected final state: %+v", st)
	}
	if st2 := <-joined; st2.Text != st.Text {
		t.Fatalf("joined request got %+v", st2)
	}
	if gen.calls.Load() != 1 {
		t.Fatalf("expected a single outbound call, got %d", gen.calls.Load())
	}
	if req, ok, _ := tr.Stats(); req != 1 || ok != 1 {
		t.Fatalf("unexpected stats: requested=%d generated=%d", req, ok)
	}
}

func TestTrackerFailedThenNewRequest(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	tr := NewTracker(New(gen, nil), time.Second)

	st := <-tr.Request(sampleBreakdown())
	if st.Status != StatusFailed || st.Text != MsgUnavailable {
		t.Fatalf("unexpected state: %+v", st)
	}

	gen.err = nil
	gen.text = "Agora sim."
	st = <-tr.Request(sampleBreakdown())
	if st.Status != StatusReady || st.Text != "Agora sim." {
		t.Fatalf("unexpected state: %+v", st)
	}
	if gen.calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", gen.calls.Load())
	}
}

func TestTrackerTimeout(t *testing.T) {
	gen := &fakeGenerator{block: make(chan struct{})}
	defer close(gen.block)
	tr := NewTracker(New(gen, nil), 20*time.Millisecond)

	select {
	case st := <-tr.Request(sampleBreakdown()):
		if st.Status != StatusFailed {
			t.Fatalf("expected failure on timeout, got %+v", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not honour timeout")
	}
}

func TestTrackerFallbackIsReady(t *testing.T) {
	tr := NewTracker(New(nil, nil), time.Second)
	st := <-tr.Request(nil)
	if st.Status != StatusReady || st.Outcome != OutcomeNotConfigured {
		t.Fatalf("unexpected state: %+v", st)
	}
}
