package domain

import (
	"encoding/hex"
	"strings"
)

// Address constants.
const (
	// AddressPrefix is the printable prefix of an account address.
	AddressPrefix = "0x"

	// AddressHexLength is the number of hex digits in the address body.
	AddressHexLength = 40

	// AddressLength is the total printable length (prefix + body).
	AddressLength = 2 + AddressHexLength
)

// Address identifies an account. The canonical form is "0x" followed
// by 40 lowercase hex digits. The zero value is the zero address,
// which owns nothing and can never receive a token.
type Address string

// ZeroAddress is the null account. Transfer notifications use it as
// the source on mint and the destination on burn.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates and normalizes a printable address.
// Accepts mixed case; returns the lowercase canonical form.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return "", ErrMissingArgument.WithDetails("address is required")
	}
	if len(s) != AddressLength || !strings.HasPrefix(s, AddressPrefix) {
		return "", ErrInvalidArgument.WithDetails("address must be 0x followed by 40 hex digits")
	}
	body := strings.ToLower(s[len(AddressPrefix):])
	if _, err := hex.DecodeString(body); err != nil {
		return "", ErrInvalidArgument.WithDetails("address contains non-hex characters")
	}
	return Address(AddressPrefix + body), nil
}

// IsValidAddress reports whether s parses as an address.
func IsValidAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// IsZero reports whether a is the zero address (or empty).
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

// String returns the printable form.
func (a Address) String() string {
	return string(a)
}

// Short returns an abbreviated form for logs: 0x1234…abcd.
func (a Address) Short() string {
	if len(a) != AddressLength {
		return string(a)
	}
	return string(a[:6]) + "…" + string(a[AddressLength-4:])
}
