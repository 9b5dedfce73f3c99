package utils

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// FormatBigInt converts a raw integer amount to a human-readable decimal
// string for the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0", nil
	}
	if decimals == 0 {
		return amount.String(), nil
	}

	amountFloat := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value := new(big.Float).Quo(amountFloat, divisor)

	formatted := value.Text('f', int(decimals))
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	if strings.HasPrefix(formatted, ".") {
		formatted = "0" + formatted
	}
	if formatted == "" {
		if amount.Sign() == 0 {
			return "0", nil
		}
		return value.Text('f', 2), fmt.Errorf("formatting produced empty string for non-zero value")
	}
	return formatted, nil
}

// BigIntToFloat converts a raw integer amount to a float64 in whole units.
// Precision past float64 is lost, which is acceptable for filtering and
// display; raw values stay on the BalanceResultItem.
func BigIntToFloat(amount *big.Int, decimals uint8) float64 {
	if amount == nil {
		return 0
	}
	amountFloat := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value, _ := new(big.Float).Quo(amountFloat, divisor).Float64()
	return value
}

// FormatFloat renders a float amount with the shortest exact representation,
// matching the style FormatBigInt produces.
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
