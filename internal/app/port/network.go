package port

import (
	"context"

	"w3batch/internal/domain/entity"
)

// BlockchainClient reads balances from one blockchain network.
// Implementations are specific to network families (EVM for now).
type BlockchainClient interface {
	// GetBalances resolves a batch of balance reads in one round trip.
	// Results keep request order; failures are per-item.
	GetBalances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error)

	// Definition returns the network definition this client is bound to.
	Definition() entity.NetworkDefinition
}

// BlockchainClientProvider hands out (and caches) clients per network.
type BlockchainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (BlockchainClient, error)
}

// NetworkResolver resolves network definitions by identifier or decimal
// chain-id string.
type NetworkResolver interface {
	Resolve(nameOrID string) (entity.NetworkDefinition, bool)
	All() []entity.NetworkDefinition
}
