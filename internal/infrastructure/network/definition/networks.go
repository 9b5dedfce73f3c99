package definition

import "w3batch/internal/domain/entity"

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:      1,
		Name:         "Ethereum Mainnet",
		Identifier:   "ethereum",
		NativeSymbol: "ETH",
		Decimals:     18,
		RPCURLs: []string{
			"https://ethereum-rpc.publicnode.com",
			"https://rpc.ankr.com/eth",
			"https://eth.llamarpc.com",
		},
		BlockExplorerURL:          "https://etherscan.io",
		DEXScreenerChainID:        "ethereum",
		WrappedNativeTokenAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", // WETH
	}
	BSC = entity.NetworkDefinition{
		ChainID:      56,
		Name:         "BNB Smart Chain",
		Identifier:   "bsc",
		NativeSymbol: "BNB",
		Decimals:     18,
		RPCURLs: []string{
			"https://1rpc.io/bnb",
			"https://bsc-dataseed2.binance.org/",
			"https://bsc.publicnode.com",
		},
		BlockExplorerURL:          "https://bscscan.com",
		DEXScreenerChainID:        "bsc",
		WrappedNativeTokenAddress: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", // WBNB
	}
	Polygon = entity.NetworkDefinition{
		ChainID:      137,
		Name:         "Polygon PoS",
		Identifier:   "polygon",
		NativeSymbol: "MATIC",
		Decimals:     18,
		RPCURLs: []string{
			"https://polygon-rpc.com/",
			"https://rpc.ankr.com/polygon",
			"https://polygon.publicnode.com",
		},
		BlockExplorerURL:          "https://polygonscan.com",
		DEXScreenerChainID:        "polygon",
		WrappedNativeTokenAddress: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", // WMATIC
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:      42161,
		Name:         "Arbitrum One",
		Identifier:   "arbitrum",
		NativeSymbol: "ETH",
		Decimals:     18,
		RPCURLs: []string{
			"https://arb1.arbitrum.io/rpc",
			"https://arbitrum.llamarpc.com",
			"https://arbitrum.publicnode.com",
		},
		BlockExplorerURL:          "https://arbiscan.io",
		DEXScreenerChainID:        "arbitrum",
		WrappedNativeTokenAddress: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // WETH on Arbitrum
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:      43114,
		Name:         "Avalanche C-Chain",
		Identifier:   "avalanche",
		NativeSymbol: "AVAX",
		Decimals:     18,
		RPCURLs: []string{
			"https://api.avax.network/ext/bc/C/rpc",
			"https://avalanche.public-rpc.com",
			"https://rpc.ankr.com/avalanche",
		},
		BlockExplorerURL:          "https://snowtrace.io",
		DEXScreenerChainID:        "avalanche",
		WrappedNativeTokenAddress: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", // WAVAX
	}
	Base = entity.NetworkDefinition{
		ChainID:      8453,
		Name:         "Base Mainnet",
		Identifier:   "base",
		NativeSymbol: "ETH",
		Decimals:     18,
		RPCURLs: []string{
			"https://1rpc.io/base",
			"https://base.publicnode.com",
			"https://base.llamarpc.com",
		},
		BlockExplorerURL:          "https://basescan.org",
		DEXScreenerChainID:        "base",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on Base
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Ethereum.Identifier:  Ethereum,
	BSC.Identifier:       BSC,
	Polygon.Identifier:   Polygon,
	Arbitrum.Identifier:  Arbitrum,
	Avalanche.Identifier: Avalanche,
	Base.Identifier:      Base,
}
