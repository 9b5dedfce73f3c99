package client

import (
	"fmt"
	"sync"
	"time"

	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
)

// evmClientProvider implements the port.BlockchainClientProvider interface.
// Clients are dialed lazily and cached per chain id for the run.
type evmClientProvider struct {
	mu             sync.Mutex
	clients        map[uint64]port.BlockchainClient
	logger         port.Logger
	connectTimeout time.Duration
	rpcCallTimeout time.Duration
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(rpcCfg config.RPCConfig, logger port.Logger) port.BlockchainClientProvider {
	return &evmClientProvider{
		clients:        make(map[uint64]port.BlockchainClient),
		logger:         logger,
		connectTimeout: time.Duration(rpcCfg.ConnectTimeoutSeconds) * time.Second,
		rpcCallTimeout: time.Duration(rpcCfg.CallTimeoutSeconds) * time.Second,
	}
}

// GetClient retrieves a blockchain client for the given network definition,
// dialing it on first use.
func (p *evmClientProvider) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, exists := p.clients[netDef.ChainID]; exists {
		p.logger.Debug("Returning cached EVM client", "network", netDef.Identifier)
		return existing, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Identifier, "endpoints", len(netDef.RPCURLs))
	newClient, err := NewEVMClient(netDef, p.connectTimeout, p.rpcCallTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Identifier, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.ChainID] = newClient
	return newClient, nil
}
