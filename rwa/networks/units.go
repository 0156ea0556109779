// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package networks

import (
	"fmt"
	"math/big"
	"strings"
)

// EtherDecimals is the precision of the native currencies of all registered
// chains.
const EtherDecimals = 18

// ParseUnits converts a conventional decimal amount string to the atomic
// representation with the given number of decimals. The amount must be a
// plain non-negative decimal number with no more fractional digits than
// decimals.
func ParseUnits(amt string, decimals uint8) (*big.Int, error) {
	amt = strings.TrimSpace(amt)
	if amt == "" {
		return nil, fmt.Errorf("empty amount")
	}
	whole, frac := amt, ""
	if i := strings.IndexByte(amt, '.'); i >= 0 {
		whole, frac = amt[:i], amt[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount %q", amt)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q exceeds asset precision %d", amt, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amt)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", amt)
	}
	return v, nil
}

// FormatUnits converts an atomic amount to a conventional decimal string,
// trimming trailing fractional zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, exp, new(big.Int))
	s := whole.String()
	if frac.Sign() != 0 {
		fracStr := fmt.Sprintf("%0*s", int(decimals), frac.String())
		fracStr = strings.TrimRight(fracStr, "0")
		s += "." + fracStr
	}
	if neg {
		s = "-" + s
	}
	return s
}

// ParseEther converts a decimal ether amount to wei.
func ParseEther(amt string) (*big.Int, error) {
	return ParseUnits(amt, EtherDecimals)
}

// FormatEther converts wei to a decimal ether string.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}
