package actions

import (
	"context"

	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
)

// debankAction snapshots a wallet through the DeBank aggregator: first the
// chains the address has touched, then the balance list per chain. The
// snapshot and total variants differ only in presentation.
type debankAction struct {
	name   string
	total  bool
	cfg    config.ActionConfig
	cache  port.Cache
	debank port.AccountAggregator
	logger port.Logger
}

func newDebankSnapshotAction(cfg config.ActionConfig, deps Deps) (port.Action, error) {
	return &debankAction{
		name:   "debank-snapshot",
		cfg:    cfg,
		cache:  deps.Cache,
		debank: deps.Debank,
		logger: deps.Logger,
	}, nil
}

func newDebankTotalAction(cfg config.ActionConfig, deps Deps) (port.Action, error) {
	return &debankAction{
		name:   "debank-total",
		total:  true,
		cfg:    cfg,
		cache:  deps.Cache,
		debank: deps.Debank,
		logger: deps.Logger,
	}, nil
}

func (a *debankAction) Name() string { return a.name }
func (a *debankAction) Total() bool  { return a.total }

// Run fetches the wallet's positions chain by chain. Chains are walked
// sequentially: the aggregator rate-limits per client and parallelism
// already comes from the wallet workers.
func (a *debankAction) Run(ctx context.Context, wallet entity.Wallet) ([]entity.BalanceRecord, error) {
	if a.cfg.CacheOnly {
		return readCached(a.cache, wallet, a.logger), nil
	}

	chains, err := a.debank.UsedChains(ctx, wallet.Address)
	if err != nil {
		return nil, err
	}

	records := make([]entity.BalanceRecord, 0, len(chains)*4)
	for _, chain := range chains {
		chainRecords, err := a.debank.ChainBalances(ctx, wallet.Address, chain)
		if err != nil {
			return nil, err
		}
		records = append(records, chainRecords...)
	}

	if err := a.cache.Put(wallet.Address, records); err != nil {
		a.logger.Warn("Failed to persist records to cache", "address", wallet.Address, "error", err)
	}
	return records, nil
}
