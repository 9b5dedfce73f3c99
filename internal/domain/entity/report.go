package entity

import "time"

// WalletSection is one wallet's slice of a per-wallet report. Records hold
// whatever survived filtering; an empty slice still gets listed.
type WalletSection struct {
	Wallet  Wallet          `json:"wallet"`
	Records []BalanceRecord `json:"records"`
}

// TotalRow is one (chain, token) aggregate across all wallets. UsdValue is
// set only when at least one summed record carried a USD value.
type TotalRow struct {
	Chain    string   `json:"chain"`
	Token    string   `json:"token"`
	Amount   float64  `json:"amount"`
	UsdValue *float64 `json:"usdValue,omitempty"`
	Wallets  int      `json:"wallets"`
}

// FailedWallet summarizes one job that ended in the Failed state.
type FailedWallet struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

// Report is the final outcome of a batch run. Exactly one of Sections or
// Totals is populated depending on the presentation mode; Failed is always
// attached, and a run always produces a Report even if every wallet failed.
type Report struct {
	Action    string          `json:"action"`
	Total     bool            `json:"total"`
	Sections  []WalletSection `json:"sections,omitempty"`
	Totals    []TotalRow      `json:"totals,omitempty"`
	Failed    []FailedWallet  `json:"failed,omitempty"`
	Wallets   int             `json:"wallets"`
	StartedAt time.Time       `json:"startedAt"`
	Elapsed   time.Duration   `json:"elapsed"`
	CacheAsOf *time.Time      `json:"cacheAsOf,omitempty"`
}
