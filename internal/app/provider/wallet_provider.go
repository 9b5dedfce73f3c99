package provider

import (
	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
	"w3batch/internal/infrastructure/walletloader"
)

type walletProviderImpl struct {
	cfg    config.WalletsConfig
	logger port.Logger
}

// NewWalletProvider creates a new WalletProvider reading the configured
// wallet file with its selection pattern applied.
func NewWalletProvider(cfg config.WalletsConfig, logger port.Logger) port.WalletProvider {
	return &walletProviderImpl{cfg: cfg, logger: logger}
}

// GetWallets loads wallet entries from the configured file.
func (p *walletProviderImpl) GetWallets() ([]entity.Wallet, error) {
	p.logger.Debug("Loading wallets from file", "path", p.cfg.File, "filter", p.cfg.Filter)
	wallets, err := walletloader.LoadWallets(p.cfg.File, p.cfg.Filter, p.cfg.CommentMarker, p.logger)
	if err != nil {
		p.logger.Error("Failed to load wallets", "path", p.cfg.File, "error", err)
		return nil, err
	}
	return wallets, nil
}
