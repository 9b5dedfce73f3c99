package port

import "w3batch/internal/domain/entity"

// WalletProvider supplies the wallet working set. Order is the wallet file
// order and is the canonical presentation order for per-wallet reports.
type WalletProvider interface {
	GetWallets() ([]entity.Wallet, error)
}
