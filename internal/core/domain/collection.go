package domain

// CollectionConfig is the construction-time configuration of the
// token collection. Name, symbol and max supply are immutable after
// creation; the base URI may later be changed by the administrator.
type CollectionConfig struct {
	// Name is the human-readable collection name.
	Name string `json:"name"`

	// Symbol is the short ticker-style symbol.
	Symbol string `json:"symbol"`

	// BaseURI is the metadata URI prefix. A token's metadata location
	// is BaseURI + decimal token id; empty means no metadata.
	BaseURI string `json:"base_uri"`

	// MaxSupply caps the number of tokens ever minted. Must be > 0.
	MaxSupply uint64 `json:"max_supply"`

	// Admin is the administrator address: the only caller allowed to
	// mint, pause/unpause, and update the base URI.
	Admin Address `json:"admin"`
}

// Validate checks the construction-time invariants.
func (c *CollectionConfig) Validate() error {
	if c.Name == "" {
		return ErrInvalidConfiguration.WithDetails("name is required")
	}
	if c.Symbol == "" {
		return ErrInvalidConfiguration.WithDetails("symbol is required")
	}
	if c.MaxSupply == 0 {
		return ErrInvalidConfiguration.WithDetails("max_supply must be positive")
	}
	if c.Admin.IsZero() {
		return ErrInvalidConfiguration.WithDetails("admin address is required")
	}
	if !IsValidAddress(string(c.Admin)) {
		return ErrInvalidConfiguration.WithDetails("admin address is malformed")
	}
	return nil
}

// TokenURI derives the metadata location for a token id.
// Returns "" when no base URI is configured.
func (c *CollectionConfig) TokenURI(id uint64) string {
	if c.BaseURI == "" {
		return ""
	}
	return c.BaseURI + FormatTokenID(id)
}
