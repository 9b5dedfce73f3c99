package entity

// BalanceRecord is one asset position reported for a wallet. Token holds
// whatever identifier the producing action supplied: a symbol for aggregator
// data, a symbol or contract address for on-chain reads. Records are
// immutable once produced.
type BalanceRecord struct {
	Chain           string   `json:"chain" yaml:"chain"`
	Token           string   `json:"token" yaml:"token"`
	Amount          float64  `json:"amount" yaml:"amount"`
	UsdValue        *float64 `json:"usdValue,omitempty" yaml:"usdValue,omitempty"`
	FormattedAmount string   `json:"formattedAmount,omitempty" yaml:"formattedAmount,omitempty"`
}

// WithUsd returns a copy of the record carrying the given USD value.
func (r BalanceRecord) WithUsd(value float64) BalanceRecord {
	r.UsdValue = &value
	return r
}
