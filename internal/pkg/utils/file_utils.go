package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"w3batch/internal/domain/entity"
)

// LoadTokensFromJSON reads a token catalog file and returns the parsed list.
func LoadTokensFromJSON(filePath string) ([]entity.TokenInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens file %s: %w", filePath, err)
	}

	var tokens []entity.TokenInfo
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse tokens file %s: %w", filePath, err)
	}
	return tokens, nil
}
