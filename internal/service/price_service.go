package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"w3batch/internal/app/port"
	"w3batch/internal/client"
	"w3batch/internal/config"
	"w3batch/internal/pkg/utils"
)

const primeConcurrency = 4

var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// priceServiceImpl implements the port.PriceSource interface backed by DEX
// Screener pair data.
type priceServiceImpl struct {
	logger      *zap.Logger
	client      client.DEXScreenerClient
	pricesCache *cache.Cache // key "dexChainID_tokenAddress" -> price (float64)
	batchSize   int
}

// NewPriceService creates a new instance of PriceService.
func NewPriceService(cfg config.PricingConfig, dexClient client.DEXScreenerClient, logger *zap.Logger) port.PriceSource {
	return &priceServiceImpl{
		logger:      logger.Named("PriceService"),
		client:      dexClient,
		pricesCache: cache.New(time.Duration(cfg.CacheTTLMinutes)*time.Minute, 10*time.Minute),
		batchSize:   cfg.MaxTokensPerBatchRequest,
	}
}

// Prime fetches and caches USD prices for the given token addresses, keyed
// by DEX Screener chain id. Tokens whose price cannot be resolved are
// logged and skipped, they simply stay unpriced.
func (s *priceServiceImpl) Prime(ctx context.Context, tokensByChain map[string][]string) error {
	eg, primeCtx := errgroup.WithContext(ctx)
	eg.SetLimit(primeConcurrency)

	var mu sync.Mutex
	cached, missing := 0, 0

	for dexChainID, addresses := range tokensByChain {
		if len(addresses) == 0 {
			continue
		}

		for _, batch := range utils.BatchStrings(addresses, s.batchSize) {
			chainID, currentBatch := dexChainID, batch // Capture range variables
			eg.Go(func() error {
				pairs, err := s.client.GetTokenPairsByAddresses(primeCtx, chainID, currentBatch)
				if err != nil {
					s.logger.Warn("Failed to fetch price batch",
						zap.String("dexChainID", chainID),
						zap.Int("batchSize", len(currentBatch)),
						zap.Error(err))
					mu.Lock()
					missing += len(currentBatch)
					mu.Unlock()
					return nil
				}

				pairsByBaseToken := make(map[string][]client.PairData)
				for _, pair := range pairs {
					base := strings.ToLower(pair.BaseToken.Address)
					pairsByBaseToken[base] = append(pairsByBaseToken[base], pair)
				}

				mu.Lock()
				defer mu.Unlock()
				for _, tokenAddr := range currentBatch {
					priceStr := selectBestPrice(pairsByBaseToken[strings.ToLower(tokenAddr)], tokenAddr)
					if priceStr == "" {
						s.logger.Debug("No usable price for token",
							zap.String("dexChainID", chainID), zap.String("tokenAddress", tokenAddr))
						missing++
						continue
					}

					price, err := strconv.ParseFloat(priceStr, 64)
					if err != nil {
						s.logger.Warn("Failed to parse price string",
							zap.String("priceStr", priceStr), zap.String("tokenAddress", tokenAddr), zap.Error(err))
						missing++
						continue
					}

					s.pricesCache.Set(priceKey(chainID, tokenAddr), price, cache.DefaultExpiration)
					cached++
				}
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	s.logger.Info("Price cache primed", zap.Int("cached", cached), zap.Int("missing", missing))
	return nil
}

// PriceUSD returns the cached USD price for a token, if one was primed.
func (s *priceServiceImpl) PriceUSD(dexscreenerChainID, tokenAddress string) (float64, bool) {
	value, found := s.pricesCache.Get(priceKey(dexscreenerChainID, tokenAddress))
	if !found {
		return 0, false
	}
	price, ok := value.(float64)
	return price, ok
}

func priceKey(dexChainID, tokenAddress string) string {
	return fmt.Sprintf("%s_%s", dexChainID, strings.ToLower(tokenAddress))
}

// selectBestPrice prefers stablecoin-quoted pairs, then the deepest
// liquidity. Pairs where the token is not the base side are ignored.
func selectBestPrice(pairs []client.PairData, baseTokenAddress string) string {
	var bestOverall, bestStablecoin *client.PairData

	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, baseTokenAddress) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}

		if _, isStablecoin := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; isStablecoin {
			if deeperLiquidity(pair, bestStablecoin) {
				bestStablecoin = pair
			}
		}
		if deeperLiquidity(pair, bestOverall) {
			bestOverall = pair
		}
	}

	if bestStablecoin != nil {
		return bestStablecoin.PriceUsd
	}
	if bestOverall != nil {
		return bestOverall.PriceUsd
	}
	return ""
}

func deeperLiquidity(candidate, current *client.PairData) bool {
	if current == nil {
		return true
	}
	if candidate.Liquidity == nil || current.Liquidity == nil {
		return false
	}
	return candidate.Liquidity.Usd > current.Liquidity.Usd
}
