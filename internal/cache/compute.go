package cache

import (
	"context"
	"errors"

	"github.com/smokyabdulrahman/salat/internal/prayer"
)

// TableStore is implemented by the file cache and the redis store.
type TableStore interface {
	LoadTable(ctx context.Context, p prayer.Params) (prayer.Table, bool)
	SaveTable(ctx context.Context, p prayer.Params, t prayer.Table) error
}

// ComputeOption tunes a single Compute call.
type ComputeOption func(*computeOptions)

type computeOptions struct {
	onSaveError func(error)
}

// OnSaveError registers fn to receive a failed store write. The table is
// still returned; without this option the failure is dropped.
func OnSaveError(fn func(error)) ComputeOption {
	return func(o *computeOptions) { o.onSaveError = fn }
}

// Compute returns the table for p from store, calculating and storing it on
// a miss. A nil store always calculates. Partial tables are stored too; the
// angle-domain error is rebuilt from the undefined fields on a hit.
func Compute(ctx context.Context, store TableStore, p prayer.Params, opts ...ComputeOption) (prayer.Table, error) {
	var o computeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.Validate(); err != nil {
		return prayer.Table{}, err
	}

	if store != nil {
		if t, ok := store.LoadTable(ctx, p); ok {
			return t, undefinedError(t)
		}
	}

	t, err := prayer.Calculate(p)
	if err != nil && !errors.Is(err, prayer.ErrInvalidAngleDomain) {
		return prayer.Table{}, err
	}
	if store != nil {
		if saveErr := store.SaveTable(ctx, p, t); saveErr != nil && o.onSaveError != nil {
			o.onSaveError(saveErr)
		}
	}
	return t, err
}

func undefinedError(t prayer.Table) error {
	var failed []prayer.Name
	for _, n := range prayer.Names {
		if !t.Defined(n) {
			failed = append(failed, n)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &prayer.AngleDomainError{Prayers: failed}
}
