package advisor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"financie/internal/core"
)

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// State is a snapshot of the latest tip request.
type State struct {
	Status      Status
	Text        string
	Outcome     OutcomeKind
	RequestedAt time.Time
	CompletedAt time.Time
}

func (s State) Pending() bool { return s.Status == StatusPending }

const flightKey = "tip"

// Tracker runs at most one tip request at a time and keeps its result for
// polling. Requests are detached from the caller and cannot be cancelled.
type Tracker struct {
	advisor *Advisor
	timeout time.Duration

	mu    sync.Mutex
	state State
	group singleflight.Group

	requested atomic.Int64
	generated atomic.Int64
	failed    atomic.Int64
}

func NewTracker(a *Advisor, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Tracker{advisor: a, timeout: timeout}
}

// Request starts a tip for the breakdown, or joins the one already running.
// The returned channel receives the final state once.
func (t *Tracker) Request(breakdown core.Breakdown) <-chan State {
	t.mu.Lock()
	if t.state.Status != StatusPending {
		t.state = State{Status: StatusPending, RequestedAt: time.Now()}
		t.requested.Add(1)
	}
	// fn runs on its own goroutine; complete takes mu after we release it.
	ch := t.group.DoChan(flightKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		return t.complete(t.advisor.Tip(ctx, breakdown)), nil
	})
	t.mu.Unlock()

	out := make(chan State, 1)
	go func() {
		res := <-ch
		out <- res.Val.(State)
	}()
	return out
}

func (t *Tracker) complete(o Outcome) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Requests arriving from now on start a new flight instead of joining this one.
	t.group.Forget(flightKey)
	status := StatusReady
	switch o.Kind {
	case OutcomeGenerated:
		t.generated.Add(1)
	case OutcomeFailed:
		status = StatusFailed
		t.failed.Add(1)
	}
	t.state.Status = status
	t.state.Text = o.Text
	t.state.Outcome = o.Kind
	t.state.CompletedAt = time.Now()
	return t.state
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stats reports request counters since start.
func (t *Tracker) Stats() (requested, generated, failed int64) {
	return t.requested.Load(), t.generated.Load(), t.failed.Load()
}
