package definition

import (
	"sort"
	"strconv"
	"strings"

	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
)

// Registry resolves chain names and ids to network definitions. It starts
// from the hardcoded definitions and merges the chains section of the
// configuration on top, which may override fields or add whole networks.
type Registry struct {
	logger       port.Logger
	byIdentifier map[string]entity.NetworkDefinition
	byChainID    map[uint64]entity.NetworkDefinition
}

// NewRegistry builds the registry from the predefined networks plus the
// configured overrides. A configured chain that does not match any known
// network must carry enough fields to stand on its own.
func NewRegistry(chains []config.ChainConfig, log port.Logger) (*Registry, error) {
	r := &Registry{
		logger:       log,
		byIdentifier: make(map[string]entity.NetworkDefinition, len(allKnownDefinitions)),
		byChainID:    make(map[uint64]entity.NetworkDefinition, len(allKnownDefinitions)),
	}
	for _, def := range allKnownDefinitions {
		r.insert(def)
	}

	for _, chain := range chains {
		def, found := r.lookup(chain.Name, chain.ChainID)
		if found {
			r.insert(applyOverride(def, chain))
			log.Debug("Network definition overridden from config", "network", def.Identifier)
			continue
		}

		added, err := newDefinition(chain)
		if err != nil {
			return nil, err
		}
		r.insert(added)
		log.Info("Custom network added from config", "network", added.Identifier, "chain_id", added.ChainID)
	}

	return r, nil
}

// Resolve matches nameOrID against a network identifier or a decimal chain
// id, case-insensitively.
func (r *Registry) Resolve(nameOrID string) (entity.NetworkDefinition, bool) {
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	if def, ok := r.byIdentifier[key]; ok {
		return def, true
	}
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		if def, ok := r.byChainID[id]; ok {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// All returns every known definition ordered by chain id.
func (r *Registry) All() []entity.NetworkDefinition {
	defs := make([]entity.NetworkDefinition, 0, len(r.byIdentifier))
	for _, def := range r.byIdentifier {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

func (r *Registry) insert(def entity.NetworkDefinition) {
	r.byIdentifier[def.Identifier] = def
	r.byChainID[def.ChainID] = def
}

func (r *Registry) lookup(name string, chainID uint64) (entity.NetworkDefinition, bool) {
	if name != "" {
		if def, ok := r.byIdentifier[strings.ToLower(name)]; ok {
			return def, true
		}
	}
	if chainID != 0 {
		if def, ok := r.byChainID[chainID]; ok {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

func applyOverride(def entity.NetworkDefinition, chain config.ChainConfig) entity.NetworkDefinition {
	if len(chain.RPCURLs) > 0 {
		def.RPCURLs = chain.RPCURLs
	}
	if chain.NativeSymbol != "" {
		def.NativeSymbol = chain.NativeSymbol
	}
	if chain.Decimals != 0 {
		def.Decimals = chain.Decimals
	}
	if chain.BlockExplorerURL != "" {
		def.BlockExplorerURL = chain.BlockExplorerURL
	}
	if chain.DEXScreenerChainID != "" {
		def.DEXScreenerChainID = chain.DEXScreenerChainID
	}
	if chain.WrappedNativeTokenAddress != "" {
		def.WrappedNativeTokenAddress = chain.WrappedNativeTokenAddress
	}
	if chain.TokensFile != "" {
		def.TokensFile = chain.TokensFile
	}
	return def
}

func newDefinition(chain config.ChainConfig) (entity.NetworkDefinition, error) {
	if chain.Name == "" {
		return entity.NetworkDefinition{}, entity.NewConfigError("chain with id %d is not predefined and has no name", chain.ChainID)
	}
	if chain.ChainID == 0 {
		return entity.NetworkDefinition{}, entity.NewConfigError("chain %q is not predefined and has no chain_id", chain.Name)
	}
	if chain.NativeSymbol == "" {
		return entity.NetworkDefinition{}, entity.NewConfigError("chain %q: native_symbol is required for custom networks", chain.Name)
	}
	if len(chain.RPCURLs) == 0 {
		return entity.NetworkDefinition{}, entity.NewConfigError("chain %q: rpc_urls is required for custom networks", chain.Name)
	}

	decimals := chain.Decimals
	if decimals == 0 {
		decimals = 18
	}

	return entity.NetworkDefinition{
		ChainID:                   chain.ChainID,
		Name:                      chain.Name,
		Identifier:                strings.ToLower(chain.Name),
		NativeSymbol:              chain.NativeSymbol,
		Decimals:                  decimals,
		RPCURLs:                   chain.RPCURLs,
		BlockExplorerURL:          chain.BlockExplorerURL,
		DEXScreenerChainID:        chain.DEXScreenerChainID,
		WrappedNativeTokenAddress: chain.WrappedNativeTokenAddress,
		TokensFile:                chain.TokensFile,
	}, nil
}
