package port

import (
	"context"

	"w3batch/internal/domain/entity"
)

// PriceSource resolves USD prices for tokens. Prime loads prices for a set of
// token addresses ahead of time (keyed by DEXScreener chain id); PriceUSD
// answers from the warmed cache.
type PriceSource interface {
	Prime(ctx context.Context, tokensByChain map[string][]string) error
	PriceUSD(dexscreenerChainID, tokenAddress string) (float64, bool)
}

// TokenCatalog supplies the token definitions configured for a network.
// Loading happens lazily and is cached after the first read.
type TokenCatalog interface {
	TokensFor(def entity.NetworkDefinition) ([]entity.TokenInfo, error)
}
