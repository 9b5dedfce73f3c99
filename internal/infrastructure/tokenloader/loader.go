package tokenloader

import (
	"os"
	"path/filepath"
	"strconv"

	"w3batch/internal/app/port"
	"w3batch/internal/domain/entity"
	"w3batch/internal/pkg/utils"
)

const defaultTokenDirectoryPath = "data/tokens"

// LoadTokens reads the token catalog for one network. When the definition
// names no tokens file, data/tokens/<identifier>.json is tried and its
// absence is not an error, just an empty catalog. An explicitly configured
// file that cannot be loaded is a ConfigError.
func LoadTokens(def entity.NetworkDefinition, log port.Logger) ([]entity.TokenInfo, error) {
	path := def.TokensFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(defaultTokenDirectoryPath, def.Identifier+".json")
		if _, err := os.Stat(path); err != nil {
			if log != nil {
				log.Debug("No token catalog for network", "network", def.Identifier, "path", path)
			}
			return nil, nil
		}
	}

	tokens, err := utils.LoadTokensFromJSON(path)
	if err != nil {
		if explicit {
			return nil, entity.NewConfigError("chain %q: %v", def.Identifier, err)
		}
		if log != nil {
			log.Warn("Failed to load token catalog, skipping file.", "path", path, "error", err)
		}
		return nil, nil
	}

	valid := make([]entity.TokenInfo, 0, len(tokens))
	for _, token := range tokens {
		// Файлы каталога иногда опускают chainId, это допустимо.
		if token.ChainID != 0 && token.ChainID != def.ChainID {
			if log != nil {
				log.Warn("Token has mismatched ChainID in file, skipping token.",
					"file", path, "token_symbol", token.Symbol, "token_address", token.Address,
					"token_chain_id", strconv.FormatUint(token.ChainID, 10),
					"expected_chain_id", strconv.FormatUint(def.ChainID, 10))
			}
			continue
		}
		valid = append(valid, token)
	}

	if log != nil {
		log.Info("Token catalog loaded for network",
			"network", def.Identifier, "file", path, "count", len(valid))
	}
	return valid, nil
}
