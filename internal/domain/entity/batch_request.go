package entity

import "math/big"

// BalanceRequestType distinguishes native-coin reads from token reads in one
// RPC batch.
type BalanceRequestType int

const (
	NativeBalanceRequest BalanceRequestType = iota
	TokenBalanceRequest
)

// ZeroAddress is the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// BalanceRequestItem is a single read inside a batched RPC call. For token
// reads TokenAddress names the contract; native reads leave it empty.
type BalanceRequestItem struct {
	Type          BalanceRequestType
	WalletAddress string
	TokenAddress  string
	TokenSymbol   string
	TokenDecimals uint8
}

// BalanceResultItem pairs one request with its outcome. Results keep the
// request order, so callers map them back by index. Error is per-item: one
// bad read does not poison the rest of the batch.
type BalanceResultItem struct {
	WalletAddress    string
	TokenAddress     string
	TokenSymbol      string
	Decimals         uint8
	IsNative         bool
	Balance          *big.Int
	FormattedBalance string
	Error            error
}
