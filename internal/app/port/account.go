package port

import (
	"context"

	"w3batch/internal/domain/entity"
)

// AccountAggregator is an external account-data provider that knows which
// chains an address has touched and the balances it holds on each.
type AccountAggregator interface {
	UsedChains(ctx context.Context, address string) ([]string, error)
	ChainBalances(ctx context.Context, address, chain string) ([]entity.BalanceRecord, error)
}
