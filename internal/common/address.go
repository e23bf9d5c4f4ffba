package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func IsSameHexAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// NormalizeAddress returns the canonical lower-case form used for comparisons and lookups
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func ChecksumAddress(addr string) string {
	address := common.HexToAddress(addr)

	return address.Hex()
}

// IsValidAddress checks that the string is a 0x prefixed, 20 byte hex address
func IsValidAddress(addr string) bool {
	return common.IsHexAddress(addr) && strings.HasPrefix(addr, "0x")
}
