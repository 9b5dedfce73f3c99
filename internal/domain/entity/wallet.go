package entity

// Wallet represents one account processed by a batch run. Identity is the
// address; the label is free-form text carried over from the wallet file.
// Wallets are immutable once loaded.
type Wallet struct {
	Address string `json:"address" yaml:"address"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayName returns the label when present, otherwise the address.
func (w Wallet) DisplayName() string {
	if w.Label != "" {
		return w.Label
	}
	return w.Address
}
