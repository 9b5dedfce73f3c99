package service

import (
	"strings"
	"testing"

	"w3batch/internal/client"
)

const wethAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

func liq(usd float64) *client.DEXLiquidity {
	return &client.DEXLiquidity{Usd: usd}
}

func dexPair(base, quoteSymbol, priceUsd string, liquidity *client.DEXLiquidity) client.PairData {
	return client.PairData{
		BaseToken:  client.DEXToken{Address: base, Symbol: "WETH"},
		QuoteToken: client.DEXToken{Symbol: quoteSymbol},
		PriceUsd:   priceUsd,
		Liquidity:  liquidity,
	}
}

func TestSelectBestPrice(t *testing.T) {
	cases := []struct {
		name  string
		pairs []client.PairData
		query string
		want  string
	}{
		{
			name: "stablecoin quote beats deeper non-stable pool",
			pairs: []client.PairData{
				dexPair(wethAddress, "WBNB", "3005.1", liq(9_000_000)),
				dexPair(wethAddress, "USDT", "2999.4", liq(1_000_000)),
			},
			query: wethAddress,
			want:  "2999.4",
		},
		{
			name: "deepest stablecoin pool wins among stables",
			pairs: []client.PairData{
				dexPair(wethAddress, "USDT", "2999.4", liq(1_000_000)),
				dexPair(wethAddress, "usdc", "3001.2", liq(5_000_000)),
				dexPair(wethAddress, "DAI", "3000.0", liq(2_000_000)),
			},
			query: wethAddress,
			want:  "3001.2",
		},
		{
			name: "no stablecoin falls back to deepest pool",
			pairs: []client.PairData{
				dexPair(wethAddress, "WBNB", "3004.0", liq(3_000_000)),
				dexPair(wethAddress, "WBTC", "3002.0", liq(8_000_000)),
			},
			query: wethAddress,
			want:  "3002.0",
		},
		{
			name: "zero and empty prices are skipped",
			pairs: []client.PairData{
				dexPair(wethAddress, "USDC", "0", liq(9_000_000)),
				dexPair(wethAddress, "USDT", "", liq(9_000_000)),
				dexPair(wethAddress, "WBNB", "3003.0", liq(100)),
			},
			query: wethAddress,
			want:  "3003.0",
		},
		{
			name: "pairs with another base token are ignored",
			pairs: []client.PairData{
				dexPair("0x6B175474E89094C44Da98b954EedeAC495271d0F", "USDC", "1.01", liq(9_000_000)),
				dexPair(wethAddress, "WBNB", "3000.0", liq(100)),
			},
			query: wethAddress,
			want:  "3000.0",
		},
		{
			name: "base address match is case-insensitive",
			pairs: []client.PairData{
				dexPair(wethAddress, "USDT", "2998.0", liq(1_000_000)),
			},
			query: strings.ToLower(wethAddress),
			want:  "2998.0",
		},
		{
			name: "unknown liquidity keeps the first usable pair",
			pairs: []client.PairData{
				dexPair(wethAddress, "WBNB", "3001.0", nil),
				dexPair(wethAddress, "WBNB", "3002.0", liq(5_000_000)),
			},
			query: wethAddress,
			want:  "3001.0",
		},
		{
			name:  "no usable pair yields empty",
			pairs: []client.PairData{dexPair("0x6B175474E89094C44Da98b954EedeAC495271d0F", "USDC", "1.01", liq(1))},
			query: wethAddress,
			want:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := selectBestPrice(tc.pairs, tc.query); got != tc.want {
				t.Errorf("selectBestPrice = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeeperLiquidity(t *testing.T) {
	deep := dexPair(wethAddress, "USDT", "1", liq(100))
	shallow := dexPair(wethAddress, "USDT", "1", liq(10))
	unknown := dexPair(wethAddress, "USDT", "1", nil)

	if !deeperLiquidity(&shallow, nil) {
		t.Error("any candidate beats no current pair")
	}
	if !deeperLiquidity(&deep, &shallow) {
		t.Error("deeper pool should replace a shallower one")
	}
	if deeperLiquidity(&shallow, &deep) {
		t.Error("shallower pool must not replace a deeper one")
	}
	if deeperLiquidity(&deep, &unknown) || deeperLiquidity(&unknown, &deep) {
		t.Error("missing liquidity data on either side must keep the current pair")
	}
}
