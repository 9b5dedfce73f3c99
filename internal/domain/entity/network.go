package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// Defined at the domain level so application and infrastructure layers share
// one shape.
type NetworkDefinition struct {
	ChainID            uint64   `json:"chainId" yaml:"chain_id"`
	Name               string   `json:"name" yaml:"name"`
	Identifier         string   `json:"identifier" yaml:"identifier"`
	NativeSymbol       string   `json:"nativeSymbol" yaml:"native_symbol"`
	Decimals           uint8    `json:"decimals" yaml:"decimals"`
	RPCURLs            []string `json:"rpcUrls" yaml:"rpc_urls"`
	BlockExplorerURL   string   `json:"blockExplorerUrl,omitempty" yaml:"block_explorer_url,omitempty"`
	DEXScreenerChainID string   `json:"dexscreenerChainId,omitempty" yaml:"dexscreener_chain_id,omitempty"`
	// WrappedNativeTokenAddress prices the native coin through its wrapped
	// twin when USD enrichment is on.
	WrappedNativeTokenAddress string `json:"wrappedNativeTokenAddress,omitempty" yaml:"wrapped_native_token_address,omitempty"`
	TokensFile                string `json:"tokensFile,omitempty" yaml:"tokens_file,omitempty"`
}
