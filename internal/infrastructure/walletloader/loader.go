package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"w3batch/internal/app/port"
	"w3batch/internal/domain/entity"
)

// LoadWallets reads the wallet list from filePath, one entry per line. An
// entry is an address or a private key, optionally followed by a comma and
// a label. Blank lines and lines starting with commentMarker are skipped.
// pattern is a regular expression selecting entries by line content, with
// "*" (the default) selecting all. File order is preserved; it is the
// iteration and presentation order downstream.
func LoadWallets(filePath, pattern, commentMarker string, log port.Logger) ([]entity.Wallet, error) {
	var matcher *regexp.Regexp
	if pattern != "" && pattern != "*" {
		var err error
		matcher, err = regexp.Compile(pattern)
		if err != nil {
			return nil, entity.NewConfigError("invalid wallets.filter pattern %q: %v", pattern, err)
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, entity.NewConfigError("failed to open wallet file %s: %v", filePath, err)
	}
	defer file.Close()

	var wallets []entity.Wallet
	scanner := bufio.NewScanner(file)
	lineNum := 0
	skipped := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || (commentMarker != "" && strings.HasPrefix(line, commentMarker)) {
			continue
		}
		if matcher != nil && !matcher.MatchString(line) {
			skipped++
			continue
		}

		wallet, err := parseLine(line)
		if err != nil {
			return nil, entity.NewConfigError("wallet file %s line %d: %v", filePath, lineNum, err)
		}
		wallets = append(wallets, wallet)
	}
	if err := scanner.Err(); err != nil {
		return nil, entity.NewConfigError("error scanning wallet file %s: %v", filePath, err)
	}

	if log != nil {
		log.Info("Wallets loaded successfully from file",
			"count", len(wallets), "skipped_by_filter", skipped, "path", filePath)
	}
	return wallets, nil
}

// parseLine accepts "0x" addresses and raw private keys (with or without
// the "0x" prefix). Keys are only used to derive the address and are
// discarded immediately; error messages never echo key material.
func parseLine(line string) (entity.Wallet, error) {
	raw := line
	label := ""
	if value, rest, found := strings.Cut(line, ","); found {
		raw = strings.TrimSpace(value)
		label = strings.TrimSpace(rest)
	}

	switch {
	case strings.HasPrefix(raw, "0x") && len(raw) == 42:
		if !common.IsHexAddress(raw) {
			return entity.Wallet{}, fmt.Errorf("malformed address %q", raw)
		}
		return entity.Wallet{Address: common.HexToAddress(raw).Hex(), Label: label}, nil

	case strings.HasPrefix(raw, "0x") && len(raw) == 66,
		!strings.HasPrefix(raw, "0x") && len(raw) == 64:
		key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return entity.Wallet{}, fmt.Errorf("malformed private key: %v", err)
		}
		return entity.Wallet{Address: crypto.PubkeyToAddress(key.PublicKey).Hex(), Label: label}, nil

	default:
		return entity.Wallet{}, fmt.Errorf("entry is neither an address nor a private key")
	}
}
