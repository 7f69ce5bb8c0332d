package service

import (
	"context"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/ledger"
	"github.com/yndnr/mintvault-go/internal/event"
)

// TokenView is the read model for one token.
type TokenView struct {
	ID       uint64         `json:"id"`
	Owner    domain.Address `json:"owner"`
	Approved domain.Address `json:"approved"`
	URI      string         `json:"uri,omitempty"`
}

// GetToken returns the token's owner, approved spender, and URI.
func (s *RegistryService) GetToken(tokenID uint64) (*TokenView, error) {
	tok, err := s.ledger.GetToken(tokenID)
	if err != nil {
		return nil, err
	}

	approved := tok.Approved
	if approved == "" {
		approved = domain.ZeroAddress
	}
	uri, _ := s.ledger.TokenURI(tokenID)

	return &TokenView{
		ID:       tok.ID,
		Owner:    tok.Owner,
		Approved: approved,
		URI:      uri,
	}, nil
}

// OwnerOf returns the current owner of a token.
func (s *RegistryService) OwnerOf(tokenID uint64) (domain.Address, error) {
	return s.ledger.OwnerOf(tokenID)
}

// GetApproved returns the token's approved spender, or the zero
// address when none is set.
func (s *RegistryService) GetApproved(tokenID uint64) (domain.Address, error) {
	return s.ledger.GetApproved(tokenID)
}

// TokenURI returns the metadata URI for a token.
func (s *RegistryService) TokenURI(tokenID uint64) (string, error) {
	return s.ledger.TokenURI(tokenID)
}

// BalanceOf returns the number of tokens owned by the given address.
// Unknown addresses have balance zero.
func (s *RegistryService) BalanceOf(addr string) (uint64, error) {
	a, err := parseAddr("address", addr)
	if err != nil {
		return 0, err
	}
	return s.ledger.BalanceOf(a), nil
}

// IsApprovedForAll reports whether operator holds blanket authority
// over owner's tokens.
func (s *RegistryService) IsApprovedForAll(owner, operator string) (bool, error) {
	o, err := parseAddr("owner", owner)
	if err != nil {
		return false, err
	}
	op, err := parseAddr("operator", operator)
	if err != nil {
		return false, err
	}
	return s.ledger.IsApprovedForAll(o, op), nil
}

// CollectionInfo is the read model for collection-level state.
type CollectionInfo struct {
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	BaseURI     string         `json:"base_uri"`
	MaxSupply   uint64         `json:"max_supply"`
	TotalSupply uint64         `json:"total_supply"`
	Minted      uint64         `json:"minted"`
	Paused      bool           `json:"paused"`
	Admin       domain.Address `json:"admin"`
}

// Collection returns the collection-level state.
func (s *RegistryService) Collection() *CollectionInfo {
	return &CollectionInfo{
		Name:        s.ledger.Name(),
		Symbol:      s.ledger.Symbol(),
		BaseURI:     s.ledger.BaseURI(),
		MaxSupply:   s.ledger.MaxSupply(),
		TotalSupply: s.ledger.TotalSupply(),
		Minted:      s.ledger.Minted(),
		Paused:      s.ledger.Paused(),
		Admin:       s.ledger.Admin(),
	}
}

// TokenHistory returns archived events for one token, oldest first.
// Returns an empty slice when no archive is configured.
func (s *RegistryService) TokenHistory(ctx context.Context, tokenID uint64, offset, limit int) ([]*domain.Event, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.TokenHistory(ctx, tokenID, offset, limit)
}

// RecentEvents returns the newest archived events across all tokens.
func (s *RegistryService) RecentEvents(ctx context.Context, limit int) ([]*domain.Event, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.Recent(ctx, limit)
}

// Subscribe attaches a new event subscription, or nil when no bus is
// configured.
func (s *RegistryService) Subscribe() *event.Subscription {
	if s.bus == nil {
		return nil
	}
	return s.bus.Subscribe()
}

// Snapshot captures the full ledger state.
func (s *RegistryService) Snapshot() *ledger.State {
	return s.ledger.Snapshot()
}
