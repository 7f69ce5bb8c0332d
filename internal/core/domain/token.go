package domain

import "strconv"

// Token is a uniquely identified non-fungible unit. IDs are allocated
// sequentially from 1; a token that was burned never comes back.
type Token struct {
	// ID is the token identifier (1..maxSupply).
	ID uint64 `json:"id"`

	// Owner is the current owner. Never the zero address while the
	// token exists; burned tokens are removed from the ledger entirely.
	Owner Address `json:"owner"`

	// Approved is the single approved spender, reset on every
	// transfer. Zero address means no approval.
	Approved Address `json:"approved,omitempty"`
}

// Clone returns a copy so callers cannot alias ledger state.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// HasApproval reports whether spender is the token's approved spender.
func (t *Token) HasApproval(spender Address) bool {
	return !t.Approved.IsZero() && t.Approved == spender
}

// FormatTokenID renders a token id the way metadata URIs expect it.
func FormatTokenID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseTokenID parses a decimal token id. Zero is never a valid id.
func ParseTokenID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidArgument.WithDetails("token id must be a positive integer")
	}
	return id, nil
}
