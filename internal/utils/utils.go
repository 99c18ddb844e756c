package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidAmount is returned when a value string cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAddress is returned for malformed hex addresses
	ErrInvalidAddress = errors.New("invalid address")
)

// Denominations understood by ParseValue
var unitDecimals = map[string]int{
	"wei":   0,
	"gwei":  9,
	"ether": 18,
	"eth":   18,
}

// Ether is 1e18 wei
var Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// GenerateRandomString returns a hex string built from length random bytes
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParseAddress parses a 0x-prefixed hex address
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseValue parses an amount such as "1000", "1gwei", "0.1 ether" into wei.
// A bare number is read as wei.
func ParseValue(s string) (*big.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	decimals := 0
	if i := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }); i < len(s)-1 {
		unit := s[i+1:]
		d, ok := unitDecimals[unit]
		if !ok {
			return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidAmount, unit)
		}
		decimals = d
		s = strings.TrimSpace(s[:i+1])
	}
	return ParseUnits(s, decimals)
}

// ParseUnits converts a decimal string scaled by 10^decimals into an integer
func ParseUnits(number string, decimals int) (*big.Int, error) {
	if number == "" || strings.HasPrefix(number, "-") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, number)
	}
	whole, frac, _ := strings.Cut(number, ".")
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: too many decimal places in %q", ErrInvalidAmount, number)
	}
	frac += strings.Repeat("0", decimals-len(frac))
	if whole == "" {
		whole = "0"
	}
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, number)
	}
	return v, nil
}

// FormatEther renders a wei amount as a decimal ether string
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	q, r := new(big.Int).QuoRem(abs, Ether, new(big.Int))
	out := q.String()
	if r.Sign() != 0 {
		frac := r.String()
		frac = strings.Repeat("0", 18-len(frac)) + frac
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ParseWei parses a base-10 wei string, treating "" as zero
func ParseWei(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}
