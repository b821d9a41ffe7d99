package records

import (
	"context"
	"fmt"

	"financie/internal/core"
)

// Ports for record storage adapters.
type (
	// Writer stores a new record at the front of the collection and assigns
	// it a fresh identifier. Input is stored as given.
	Writer interface {
		Add(ctx context.Context, d core.Draft) (core.Record, error)
	}

	// Deleter removes a record by ID. Unknown IDs are not an error.
	Deleter interface {
		Remove(ctx context.Context, id string) (removed bool, err error)
	}

	// Lister returns a snapshot of all records, newest first.
	Lister interface {
		List(ctx context.Context) ([]core.Record, error)
	}

	Store interface {
		Writer
		Deleter
		Lister
	}
)

// Seed adds drafts so that listing the store afterwards yields them in the
// given order. Writers prepend, so drafts are added last to first.
func Seed(ctx context.Context, w Writer, drafts []core.Draft) error {
	for i := len(drafts) - 1; i >= 0; i-- {
		if _, err := w.Add(ctx, drafts[i]); err != nil {
			return fmt.Errorf("seed record %q: %w", drafts[i].Description, err)
		}
	}
	return nil
}
