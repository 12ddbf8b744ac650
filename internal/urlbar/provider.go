package urlbar

import (
	"context"
	"errors"
)

var (
	// ErrProviderNotFound is returned by Pick when the result's provider
	// is not registered.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrNotPickable is returned by Pick when the provider cannot resolve
	// picked results.
	ErrNotPickable = errors.New("provider does not handle picks")
)

// ActionsProvider contributes quick actions to the address bar.
type ActionsProvider interface {
	// Name identifies the provider. It must be unique within a Manager.
	Name() string

	// IsActive reports whether the provider should be queried for qc.
	// It is called on every keystroke and must be cheap.
	IsActive(qc *QueryContext) bool

	// QueryActions returns the provider's results for qc. It is only
	// called when IsActive returned true for the same context.
	QueryActions(ctx context.Context, qc *QueryContext) ([]ActionsResult, error)
}

// Picker is implemented by providers whose results can be picked.
type Picker interface {
	// OnPick resolves the result's Action.
	OnPick(ctx context.Context, result ActionsResult) error
}

// PickRecorder records picked results, e.g. into a history store.
type PickRecorder interface {
	RecordPick(ctx context.Context, qc *QueryContext, result ActionsResult) error
}
