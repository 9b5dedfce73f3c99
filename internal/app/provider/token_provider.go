package provider

import (
	"w3batch/internal/app/port"
	"w3batch/internal/domain/entity"
	"w3batch/internal/infrastructure/tokenloader"
)

type tokenCatalogImpl struct {
	logger port.Logger
	cache  map[string][]entity.TokenInfo // key: network identifier
}

// NewTokenCatalog creates a TokenCatalog that loads per-network token
// files lazily and caches them for the rest of the run.
func NewTokenCatalog(logger port.Logger) port.TokenCatalog {
	return &tokenCatalogImpl{
		logger: logger,
		cache:  make(map[string][]entity.TokenInfo),
	}
}

// TokensFor returns the token catalog for the given network, loading it on
// first use.
func (p *tokenCatalogImpl) TokensFor(def entity.NetworkDefinition) ([]entity.TokenInfo, error) {
	if tokens, ok := p.cache[def.Identifier]; ok {
		p.logger.Debug("Returning cached tokens for network", "network", def.Identifier)
		return tokens, nil
	}

	tokens, err := tokenloader.LoadTokens(def, p.logger)
	if err != nil {
		p.logger.Error("Failed to load tokens", "network", def.Identifier, "error", err)
		return nil, err
	}

	p.cache[def.Identifier] = tokens
	return tokens, nil
}
