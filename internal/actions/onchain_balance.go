package actions

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
	"w3batch/internal/pkg/utils"
)

// balanceTarget is one resolved tokens entry. The request template carries
// everything except the wallet address, which is filled per job.
type balanceTarget struct {
	def          entity.NetworkDefinition
	request      entity.BalanceRequestItem
	display      string
	priceAddress string
}

// chainBatch groups target indices that share a network, so one wallet costs
// one RPC batch per network.
type chainBatch struct {
	def     entity.NetworkDefinition
	indices []int
}

type onchainBalanceAction struct {
	cfg     config.ActionConfig
	cache   port.Cache
	clients port.BlockchainClientProvider
	prices  port.PriceSource
	logger  port.Logger
	targets []balanceTarget
	batches []chainBatch
}

func newOnchainBalanceAction(cfg config.ActionConfig, deps Deps) (port.Action, error) {
	action := &onchainBalanceAction{
		cfg:     cfg,
		cache:   deps.Cache,
		clients: deps.Clients,
		prices:  deps.Prices,
		logger:  deps.Logger,
	}

	if cfg.CacheOnly {
		// Cache reads need no network targets.
		return action, nil
	}

	if len(cfg.Tokens) == 0 {
		return nil, entity.NewConfigError("action %q: onchain-balance requires a tokens list", cfg.Name)
	}

	batchIndex := make(map[uint64]int)
	for _, tokensEntry := range cfg.Tokens {
		chainPart, tokenPart, _ := strings.Cut(tokensEntry, ":")
		def, ok := deps.Networks.Resolve(strings.TrimSpace(chainPart))
		if !ok {
			return nil, entity.NewConfigError("action %q: unknown network %q in tokens entry %q",
				cfg.Name, chainPart, tokensEntry)
		}

		target, err := resolveTarget(def, strings.TrimSpace(tokenPart), deps.Catalog, deps.Logger)
		if err != nil {
			return nil, err
		}

		idx := len(action.targets)
		action.targets = append(action.targets, target)

		bi, seen := batchIndex[def.ChainID]
		if !seen {
			bi = len(action.batches)
			batchIndex[def.ChainID] = bi
			action.batches = append(action.batches, chainBatch{def: def})
		}
		action.batches[bi].indices = append(action.batches[bi].indices, idx)
	}
	return action, nil
}

func (a *onchainBalanceAction) Name() string { return "onchain-balance" }
func (a *onchainBalanceAction) Total() bool  { return false }

// Warmup primes the USD price cache for every configured token before the
// first wallet is scheduled.
func (a *onchainBalanceAction) Warmup(ctx context.Context) error {
	if !a.cfg.Prices || a.cfg.CacheOnly {
		return nil
	}

	tokensByChain := make(map[string][]string)
	seen := make(map[string]struct{})
	for _, target := range a.targets {
		dexChainID := target.def.DEXScreenerChainID
		if dexChainID == "" || target.priceAddress == "" {
			continue
		}
		key := dexChainID + "_" + strings.ToLower(target.priceAddress)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tokensByChain[dexChainID] = append(tokensByChain[dexChainID], target.priceAddress)
	}

	if len(tokensByChain) == 0 {
		return nil
	}
	return a.prices.Prime(ctx, tokensByChain)
}

// Run reads all configured balances for one wallet, one RPC batch per
// network. Any read failure fails the whole job: a partial snapshot would
// silently understate totals.
func (a *onchainBalanceAction) Run(ctx context.Context, wallet entity.Wallet) ([]entity.BalanceRecord, error) {
	if a.cfg.CacheOnly {
		return readCached(a.cache, wallet, a.logger), nil
	}

	results := make([]entity.BalanceResultItem, len(a.targets))
	var errs []error

	for _, batch := range a.batches {
		networkClient, err := a.clients.GetClient(batch.def)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		requests := make([]entity.BalanceRequestItem, len(batch.indices))
		for i, idx := range batch.indices {
			req := a.targets[idx].request
			req.WalletAddress = wallet.Address
			requests[i] = req
		}

		batchResults, err := networkClient.GetBalances(ctx, requests)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for i, idx := range batch.indices {
			results[idx] = batchResults[i]
		}
	}

	records := make([]entity.BalanceRecord, 0, len(a.targets))
	for i, target := range a.targets {
		res := results[i]
		if res.Error != nil {
			errs = append(errs, res.Error)
			continue
		}
		if res.Balance == nil {
			// The whole chain batch failed; its error is already collected.
			continue
		}

		record := entity.BalanceRecord{
			Chain:           target.def.Identifier,
			Token:           target.display,
			Amount:          utils.BigIntToFloat(res.Balance, res.Decimals),
			FormattedAmount: res.FormattedBalance,
		}
		if a.cfg.Prices && target.priceAddress != "" && target.def.DEXScreenerChainID != "" {
			if price, ok := a.prices.PriceUSD(target.def.DEXScreenerChainID, target.priceAddress); ok {
				record = record.WithUsd(record.Amount * price)
			}
		}
		records = append(records, record)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := a.cache.Put(wallet.Address, records); err != nil {
		a.logger.Warn("Failed to persist records to cache", "address", wallet.Address, "error", err)
	}
	return records, nil
}

// resolveTarget maps one token reference to a request template. "native" or
// the network's native symbol means a coin balance; a 0x address or a catalog
// symbol means an ERC-20 read.
func resolveTarget(def entity.NetworkDefinition, token string, catalog port.TokenCatalog, log port.Logger) (balanceTarget, error) {
	if strings.EqualFold(token, "native") || strings.EqualFold(token, def.NativeSymbol) {
		return balanceTarget{
			def: def,
			request: entity.BalanceRequestItem{
				Type:          entity.NativeBalanceRequest,
				TokenSymbol:   def.NativeSymbol,
				TokenDecimals: def.Decimals,
			},
			display:      def.NativeSymbol,
			priceAddress: def.WrappedNativeTokenAddress,
		}, nil
	}

	catalogTokens, err := catalog.TokensFor(def)
	if err != nil {
		return balanceTarget{}, err
	}

	if common.IsHexAddress(token) {
		for _, info := range catalogTokens {
			if strings.EqualFold(info.Address, token) {
				return tokenTarget(def, info), nil
			}
		}
		log.Warn("Token address not in catalog, assuming 18 decimals",
			"network", def.Identifier, "address", token)
		return balanceTarget{
			def: def,
			request: entity.BalanceRequestItem{
				Type:          entity.TokenBalanceRequest,
				TokenAddress:  token,
				TokenSymbol:   token,
				TokenDecimals: 18,
			},
			display:      token,
			priceAddress: token,
		}, nil
	}

	for _, info := range catalogTokens {
		if strings.EqualFold(info.Symbol, token) {
			return tokenTarget(def, info), nil
		}
	}
	return balanceTarget{}, entity.NewConfigError("token %q is not in the catalog for network %s", token, def.Identifier)
}

func tokenTarget(def entity.NetworkDefinition, info entity.TokenInfo) balanceTarget {
	return balanceTarget{
		def: def,
		request: entity.BalanceRequestItem{
			Type:          entity.TokenBalanceRequest,
			TokenAddress:  info.Address,
			TokenSymbol:   info.Symbol,
			TokenDecimals: info.Decimals,
		},
		display:      info.Symbol,
		priceAddress: info.Address,
	}
}
