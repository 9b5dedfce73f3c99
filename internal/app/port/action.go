package port

import (
	"context"

	"w3batch/internal/domain/entity"
)

// Action produces balance records for one wallet. Handlers are built once per
// run by the registry with their configuration, cache handle and collaborators
// bound, so per-wallet invocations carry no shared mutable state.
type Action interface {
	// Name returns the action-type tag the handler was registered under.
	Name() string
	// Total reports whether results should be presented as a summed
	// aggregate instead of per-wallet sections.
	Total() bool
	Run(ctx context.Context, wallet entity.Wallet) ([]entity.BalanceRecord, error)
}

// Warmer is implemented by actions that want a one-off preparation step
// before any wallet is scheduled (price cache priming and the like).
type Warmer interface {
	Warmup(ctx context.Context) error
}
