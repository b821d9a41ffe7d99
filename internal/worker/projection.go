// Package worker consumes record events and keeps running aggregates of the
// records they describe, independent of the process that owns the store.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"financie/internal/cache"
	"financie/internal/core"
	"financie/internal/events"
	"financie/internal/log"
)

const (
	defaultDedupeSize = 10000
	defaultDedupeTTL  = 24 * time.Hour
)

// Stats counts what the projection did with delivered events.
type Stats struct {
	Applied    int64
	Duplicates int64
	Ignored    int64
}

// Projection mirrors the record store from its event stream. Records are
// kept newest first, the same order the store lists them in, so the
// category breakdown matches the dashboard.
type Projection struct {
	mu      sync.Mutex
	records []core.Record
	stats   Stats

	seen   *cache.LRUCache[struct{}]
	sink   Sink
	logger *slog.Logger
}

func NewProjection(logger *slog.Logger) *Projection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projection{
		seen:   cache.NewLRUCache[struct{}](defaultDedupeSize, defaultDedupeTTL),
		logger: logger,
	}
}

// Sink receives every event the projection applies, e.g. a spreadsheet
// export. A sink error leaves the projection untouched so the broker can
// redeliver the event.
type Sink interface {
	RecordCreated(ctx context.Context, e events.RecordEvent) error
	RecordDeleted(ctx context.Context, id string) error
}

// SetSink attaches s. It must be called before events are handled.
func (p *Projection) SetSink(s Sink) {
	p.sink = s
}

// Handle applies one event. Redelivered events are recognised and skipped.
// Events the projection cannot use are logged and acknowledged.
func (p *Projection) Handle(ctx context.Context, e events.RecordEvent) error {
	if !p.seen.Add(e.Key(), struct{}{}) {
		p.mu.Lock()
		p.stats.Duplicates++
		p.mu.Unlock()
		p.logger.DebugContext(ctx, "Skipping duplicate record event", "type", e.Type, log.FieldRecordID, e.RecordID)
		return nil
	}

	switch e.Type {
	case events.TypeRecordCreated:
		r, err := recordFromEvent(e)
		if err != nil {
			p.ignore()
			p.logger.WarnContext(ctx, "Ignoring malformed record event", log.FieldRecordID, e.RecordID, log.FieldError, err)
			return nil
		}
		if p.sink != nil {
			if err := p.sink.RecordCreated(ctx, e); err != nil {
				p.seen.Delete(e.Key())
				return fmt.Errorf("export created record: %w", err)
			}
		}

		p.mu.Lock()
		p.records = slices.Insert(p.records, 0, r)
		p.stats.Applied++
		p.mu.Unlock()
		p.logger.InfoContext(ctx, "Record added",
			log.FieldRecordID, r.ID, log.FieldKind, e.Kind, log.FieldCategory, r.Category, log.FieldAmountCents, r.Amount.Cents)

	case events.TypeRecordDeleted:
		// The sheet may still hold rows from before this worker started, so
		// the sink hears about every delete.
		if p.sink != nil {
			if err := p.sink.RecordDeleted(ctx, e.RecordID); err != nil {
				p.seen.Delete(e.Key())
				return fmt.Errorf("export deleted record: %w", err)
			}
		}

		p.mu.Lock()
		i := slices.IndexFunc(p.records, func(r core.Record) bool { return r.ID == e.RecordID })
		if i < 0 {
			p.stats.Ignored++
			p.mu.Unlock()
			p.logger.DebugContext(ctx, "Delete for unknown record", log.FieldRecordID, e.RecordID)
			return nil
		}
		p.records = slices.Delete(p.records, i, i+1)
		p.stats.Applied++
		p.mu.Unlock()
		p.logger.InfoContext(ctx, "Record removed", log.FieldRecordID, e.RecordID)

	default:
		p.ignore()
		p.logger.WarnContext(ctx, "Unknown record event type", "type", e.Type, log.FieldRecordID, e.RecordID)
	}
	return nil
}

func (p *Projection) ignore() {
	p.mu.Lock()
	p.stats.Ignored++
	p.mu.Unlock()
}

func recordFromEvent(e events.RecordEvent) (core.Record, error) {
	kind, err := core.ParseKind(e.Kind)
	if err != nil {
		return core.Record{}, err
	}
	if e.AmountCents < 0 {
		return core.Record{}, fmt.Errorf("negative amount %d", e.AmountCents)
	}
	return core.Record{
		ID:       e.RecordID,
		Kind:     kind,
		Category: e.Category,
		Amount:   core.Money{Cents: e.AmountCents},
	}, nil
}

// Summary aggregates the records seen so far.
func (p *Projection) Summary() core.Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return core.Summarize(p.records)
}

func (p *Projection) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Dedupe exposes the redelivery cache so callers can schedule its cleanup.
func (p *Projection) Dedupe() cache.Cleaner {
	return p.seen
}

// LogSummary writes the current aggregates at info level.
func (p *Projection) LogSummary(ctx context.Context) {
	sum := p.Summary()
	stats := p.Stats()
	args := []any{
		"income", core.FormatBRL(sum.TotalIncome),
		"expenses", core.FormatBRL(sum.TotalExpenses),
		"balance", core.FormatBRL(sum.Balance),
		"records", sum.IncomeCount + sum.ExpenseCount,
		"applied", stats.Applied,
		"duplicates", stats.Duplicates,
	}
	for _, c := range sum.Breakdown {
		args = append(args, "category."+c.Name, core.FormatBRL(c.Amount))
	}
	p.logger.InfoContext(ctx, "Projection summary", args...)
}

// Run consumes events into the projection and logs a summary every interval
// until ctx is done.
func Run(ctx context.Context, consumer events.Consumer, p *Projection, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Consume(ctx, p.Handle) }()
	go cache.RunCleanup(ctx, time.Hour, func(n int) {
		p.logger.DebugContext(ctx, "Expired dedupe entries removed", "count", n)
	}, p.Dedupe())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.LogSummary(ctx)
		case err := <-errCh:
			p.LogSummary(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
