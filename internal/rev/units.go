// Package rev converts between atomic units and display units. The engine
// works in atomic units end to end; conversion happens only at
// presentation and argument-parsing time.
package rev

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
)

// Factor returns 10^decimals as an Int.
func Factor(decimals int) math.Int {
	return math.NewIntWithDecimal(1, decimals)
}

// ToDisplay renders an atomic amount as a fixed-point decimal string with
// the trailing zeros trimmed ("89.999", "100", "0.00000001").
func ToDisplay(atomic math.Int, decimals int) string {
	if atomic.IsNil() {
		return "0"
	}
	factor := Factor(decimals)
	whole := atomic.Quo(factor)
	frac := atomic.Mod(factor).Abs()
	if frac.IsZero() {
		return whole.String()
	}
	fracStr := fmt.Sprintf("%0*s", decimals, frac.String())
	fracStr = strings.TrimRight(fracStr, "0")
	return whole.String() + "." + fracStr
}

// ParseAmount converts a decimal display amount ("10", "0.001") into
// atomic units.
func ParseAmount(s string, decimals int) (math.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.Int{}, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		return math.Int{}, fmt.Errorf("amount must not be negative")
	}

	wholeStr, fracStr, _ := strings.Cut(s, ".")
	if len(fracStr) > decimals {
		return math.Int{}, fmt.Errorf("amount %q has more than %d fractional digits", s, decimals)
	}
	fracStr += strings.Repeat("0", decimals-len(fracStr))

	if wholeStr == "" {
		wholeStr = "0"
	}
	whole, ok := math.NewIntFromString(wholeStr)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	frac := math.ZeroInt()
	if fracStr != "" {
		frac, ok = math.NewIntFromString(fracStr)
		if !ok {
			return math.Int{}, fmt.Errorf("invalid amount %q", s)
		}
	}
	return whole.Mul(Factor(decimals)).Add(frac), nil
}
