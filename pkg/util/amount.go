package util

import (
	"fmt"
	"math/big"
	"strings"
)

// WavesDecimals is the number of decimal places of the native asset; one
// whole unit is 10^8 indivisible units.
const WavesDecimals = 8

// ParseAmount converts a non-negative decimal quantity such as "1.25" into
// indivisible units of an asset with the given number of decimals. It fails
// on anything that is not a plain decimal number, on precision finer than one
// indivisible unit, and on values that do not fit in a uint64.
func ParseAmount(quantity string, decimals uint8) (uint64, error) {
	s := strings.TrimSpace(quantity)
	if s == "" {
		return 0, fmt.Errorf("amount cannot be empty")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", quantity)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("invalid amount %q: only digits and one decimal point are allowed", quantity)
	}

	trimmed := strings.TrimRight(frac, "0")
	if len(trimmed) > int(decimals) {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", quantity, decimals)
	}
	digits := whole + trimmed + strings.Repeat("0", int(decimals)-len(trimmed))

	units, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", quantity)
	}
	if !units.IsUint64() {
		return 0, fmt.Errorf("amount %q overflows 64-bit unsigned range", quantity)
	}
	return units.Uint64(), nil
}

// FormatAmount renders indivisible units as a decimal quantity, the inverse of
// ParseAmount.
func FormatAmount(units uint64, decimals uint8) string {
	if decimals == 0 {
		return new(big.Int).SetUint64(units).String()
	}
	s := fmt.Sprintf("%0*d", int(decimals)+1, units)
	split := len(s) - int(decimals)
	frac := strings.TrimRight(s[split:], "0")
	if frac == "" {
		return s[:split]
	}
	return s[:split] + "." + frac
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
