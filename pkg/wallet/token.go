package wallet

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// maxAmountBits is the width of an ERC20 uint256 amount
	maxAmountBits = 256
	// maxAmountDigits is the number of decimal digits of the largest uint256
	maxAmountDigits = 78
)

// Token holds the metadata of the token, read once when a session starts
type Token struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ParseAmount parses a decimal amount into the raw integer representation of the token.
// The amount must be non-negative and must not carry more fractional digits than the token allows.
// Exponent notation is not accepted.
func (t *Token) ParseAmount(s string) (*big.Int, error) {
	if strings.ContainsAny(s, "eE") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}

	if d.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, s)
	}

	// bound the magnitude before building the integer
	if !d.IsZero() && int64(d.Exponent())+int64(len(d.Coefficient().String()))+int64(t.Decimals) > maxAmountDigits {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, s)
	}

	raw := d.Shift(int32(t.Decimals))
	if !raw.Equal(raw.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, s, t.Decimals)
	}

	v := raw.BigInt()
	if v.BitLen() > maxAmountBits {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, s)
	}

	return v, nil
}

// FormatAmount renders a raw amount as a decimal string using the token precision
func (t *Token) FormatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return decimal.NewFromBigInt(v, -int32(t.Decimals)).String()
}
