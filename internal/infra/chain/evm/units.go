package evm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// NativeDecimals is the exponent between wei and the native unit.
const NativeDecimals = 18

// DisplayPlaces is the number of fractional digits shown for native values.
const DisplayPlaces = 4

// ZeroDisplay is what an empty value renders as.
const ZeroDisplay = "0.00"

// parseQuantity decodes a hex quantity. Leading zeros are tolerated since
// some nodes emit them.
func parseQuantity(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	if v, err := hexutil.DecodeUint64(s); err == nil {
		return v, nil
	}
	v, err := parseBig(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("quantity %s overflows uint64", s)
	}
	return v.Uint64(), nil
}

func parseBig(s string) (*big.Int, error) {
	if v, err := hexutil.DecodeBig(s); err == nil {
		return v, nil
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v, nil
}

// ParseNative converts a hex wei amount into native units rounded to
// DisplayPlaces. "" and "0x" are zero.
func ParseNative(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0x" {
		return decimal.Zero, nil
	}
	wei, err := parseBig(value)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(wei, -NativeDecimals).Round(DisplayPlaces), nil
}

// FormatNative renders a hex wei amount with DisplayPlaces fractional digits.
// Empty and unparseable values render as ZeroDisplay.
func FormatNative(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "0x" {
		return ZeroDisplay
	}
	v, err := ParseNative(value)
	if err != nil {
		return ZeroDisplay
	}
	return v.StringFixed(DisplayPlaces)
}

// ShortenAddress keeps the first 6 and last 4 characters.
func ShortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
