package service

import (
	"context"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/ledger"
)

// LedgerStore defines the persistence interface for ledger state.
//
// The store receives one delta per accepted mutation and must be able
// to reconstruct the full state on startup. The in-memory ledger is
// authoritative while the process runs; the store is the recovery
// source after a restart.
type LedgerStore interface {
	// PutToken writes or overwrites one token record.
	PutToken(ctx context.Context, tok *domain.Token) error

	// DeleteToken removes a token record (burn).
	DeleteToken(ctx context.Context, tokenID uint64) error

	// PutOperator records an owner -> operator approval grant.
	PutOperator(ctx context.Context, owner, operator domain.Address) error

	// DeleteOperator removes an operator approval grant.
	DeleteOperator(ctx context.Context, owner, operator domain.Address) error

	// SetMinted persists the monotonic mint counter.
	SetMinted(ctx context.Context, minted uint64) error

	// SetPaused persists the pause flag.
	SetPaused(ctx context.Context, paused bool) error

	// SetBaseURI persists the metadata base URI.
	SetBaseURI(ctx context.Context, baseURI string) error

	// LoadState reads the complete persisted state for recovery. The
	// second return value is false when no ledger keys exist at all,
	// marking a store that has never been initialized.
	LoadState(ctx context.Context) (*ledger.State, bool, error)
}
