package ledger

import (
	"sync"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/pkg/cmap"
)

// Ledger holds the collection state and enforces the transition rules
// on every mutation.
//
// Pause/Unpause reject a no-op toggle (pausing while paused fails with
// MV-PAUS-4091, unpausing while active with MV-PAUS-4092) so caller
// mistakes surface instead of silently succeeding.
type Ledger struct {
	cfg domain.CollectionConfig

	// Primary index: token id -> token record.
	tokens *cmap.Map[uint64, *domain.Token]

	// Derived index: owner -> number of owned tokens. Entries are
	// removed when the balance reaches zero.
	balances *cmap.Map[domain.Address, uint64]

	// operators holds the owner -> operator approval relation.
	operators map[domain.Address]map[domain.Address]bool

	// minted counts tokens ever minted; never decremented. The next
	// token id is always minted+1.
	minted uint64

	// supply counts currently existing tokens.
	supply uint64

	paused  bool
	baseURI string

	// mu serializes mutations and guards the fields above that are not
	// concurrent-safe on their own (operators, counters, flags).
	mu sync.RWMutex
}

// New creates a ledger for the given collection configuration.
func New(cfg domain.CollectionConfig) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Ledger{
		cfg:       cfg,
		tokens:    cmap.New[uint64, *domain.Token](),
		balances:  cmap.New[domain.Address, uint64](),
		operators: make(map[domain.Address]map[domain.Address]bool),
		baseURI:   cfg.BaseURI,
	}, nil
}

// Mint allocates the next token id and assigns it to `to`.
// Administrator-only; rejected while paused or once the supply cap is
// reached. Returns the new id and the transfer notification.
func (l *Ledger) Mint(caller, to domain.Address) (uint64, *domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.cfg.Admin {
		return 0, nil, domain.ErrAdminRequired.WithDetails("mint is administrator-only")
	}
	if l.paused {
		return 0, nil, domain.ErrLedgerPaused
	}
	if to.IsZero() {
		return 0, nil, domain.ErrMintToZeroAddress
	}
	if l.minted >= l.cfg.MaxSupply {
		return 0, nil, domain.ErrMaxSupplyReached.WithDetails("cap is " + domain.FormatTokenID(l.cfg.MaxSupply))
	}

	id := l.minted + 1
	l.tokens.Set(id, &domain.Token{ID: id, Owner: to})
	l.creditLocked(to)
	l.minted = id
	l.supply++

	return id, domain.NewTransferEvent(domain.ZeroAddress, to, id), nil
}

// Transfer reassigns ownership of a token. The caller must be the
// current owner, the token's approved spender, or an approved operator
// for the owner. The single-token approval is cleared on success.
func (l *Ledger) Transfer(caller, from, to domain.Address, tokenID uint64) (*domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tok, ok := l.tokens.Get(tokenID)
	if !ok {
		return nil, domain.ErrTokenNotFound.WithDetails("token " + domain.FormatTokenID(tokenID))
	}
	if l.paused {
		return nil, domain.ErrLedgerPaused
	}
	if tok.Owner != from {
		return nil, domain.ErrUnauthorized.WithDetails("token is not owned by the from address")
	}
	if to.IsZero() {
		return nil, domain.ErrInvalidArgument.WithDetails("cannot transfer to the zero address; use burn")
	}
	if !l.canSpendLocked(caller, tok) {
		return nil, domain.ErrUnauthorized
	}

	l.debitLocked(from)
	l.creditLocked(to)
	tok.Owner = to
	tok.Approved = ""

	return domain.NewTransferEvent(from, to, tokenID), nil
}

// Approve sets (or, with the zero address, revokes) the token's single
// approved spender. The caller must own the token or be an approved
// operator for its owner. Approvals are not pause-gated.
func (l *Ledger) Approve(caller, spender domain.Address, tokenID uint64) (*domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tok, ok := l.tokens.Get(tokenID)
	if !ok {
		return nil, domain.ErrTokenNotFound.WithDetails("token " + domain.FormatTokenID(tokenID))
	}
	if caller != tok.Owner && !l.isOperatorLocked(tok.Owner, caller) {
		return nil, domain.ErrUnauthorized.WithDetails("only the owner or an operator may approve")
	}

	if spender.IsZero() {
		tok.Approved = ""
	} else {
		tok.Approved = spender
	}

	return domain.NewApprovalEvent(tok.Owner, spender, tokenID), nil
}

// SetApprovalForAll grants or revokes blanket transfer authority over
// all of the caller's tokens, present and future.
func (l *Ledger) SetApprovalForAll(caller, operator domain.Address, approved bool) (*domain.Event, error) {
	if operator.IsZero() {
		return nil, domain.ErrInvalidArgument.WithDetails("operator must not be the zero address")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if approved {
		if l.operators[caller] == nil {
			l.operators[caller] = make(map[domain.Address]bool)
		}
		l.operators[caller][operator] = true
	} else {
		delete(l.operators[caller], operator)
		if len(l.operators[caller]) == 0 {
			delete(l.operators, caller)
		}
	}

	return domain.NewApprovalForAllEvent(caller, operator, approved), nil
}

// Burn removes a token entirely. Burn is a transfer to the zero owner
// and is subject to the same authorization and pause rules.
func (l *Ledger) Burn(caller domain.Address, tokenID uint64) (*domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tok, ok := l.tokens.Get(tokenID)
	if !ok {
		return nil, domain.ErrTokenNotFound.WithDetails("token " + domain.FormatTokenID(tokenID))
	}
	if l.paused {
		return nil, domain.ErrLedgerPaused
	}
	if !l.canSpendLocked(caller, tok) {
		return nil, domain.ErrUnauthorized
	}

	owner := tok.Owner
	l.tokens.Delete(tokenID)
	l.debitLocked(owner)
	l.supply--

	return domain.NewTransferEvent(owner, domain.ZeroAddress, tokenID), nil
}

// Pause stops minting, transfers, and burns. Administrator-only;
// fails if already paused.
func (l *Ledger) Pause(caller domain.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.cfg.Admin {
		return domain.ErrAdminRequired.WithDetails("pause is administrator-only")
	}
	if l.paused {
		return domain.ErrAlreadyPaused
	}
	l.paused = true
	return nil
}

// Unpause restores normal operation. Administrator-only; fails if not
// paused. Existing ownership and balances are unaffected.
func (l *Ledger) Unpause(caller domain.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.cfg.Admin {
		return domain.ErrAdminRequired.WithDetails("unpause is administrator-only")
	}
	if !l.paused {
		return domain.ErrNotPaused
	}
	l.paused = false
	return nil
}

// SetBaseURI overwrites the metadata base URI. Administrator-only; the
// new value is not validated.
func (l *Ledger) SetBaseURI(caller domain.Address, base string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.cfg.Admin {
		return domain.ErrAdminRequired.WithDetails("base URI updates are administrator-only")
	}
	l.baseURI = base
	return nil
}

// ============================================================================
// Queries
// ============================================================================

// GetToken returns a copy of the token record. Transfer and Approve
// mutate records in place under l.mu, so the clone must happen under
// the same lock.
func (l *Ledger) GetToken(tokenID uint64) (*domain.Token, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tok, ok := l.tokens.Get(tokenID)
	if !ok {
		return nil, domain.ErrTokenNotFound.WithDetails("token " + domain.FormatTokenID(tokenID))
	}
	return tok.Clone(), nil
}

// OwnerOf returns the current owner of a token.
func (l *Ledger) OwnerOf(tokenID uint64) (domain.Address, error) {
	tok, err := l.GetToken(tokenID)
	if err != nil {
		return "", err
	}
	return tok.Owner, nil
}

// GetApproved returns the token's approved spender (zero if none).
func (l *Ledger) GetApproved(tokenID uint64) (domain.Address, error) {
	tok, err := l.GetToken(tokenID)
	if err != nil {
		return "", err
	}
	if tok.Approved == "" {
		return domain.ZeroAddress, nil
	}
	return tok.Approved, nil
}

// BalanceOf returns the number of tokens owned by addr. Unknown
// addresses have balance zero; this query never fails.
func (l *Ledger) BalanceOf(addr domain.Address) uint64 {
	n, _ := l.balances.Get(addr)
	return n
}

// IsApprovedForAll reports whether operator holds blanket authority
// over owner's tokens.
func (l *Ledger) IsApprovedForAll(owner, operator domain.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isOperatorLocked(owner, operator)
}

// Exists reports whether the token currently has an owner.
func (l *Ledger) Exists(tokenID uint64) bool {
	return l.tokens.Has(tokenID)
}

// TokenURI returns baseURI + decimal(tokenID), or "" when no base URI
// is set. Fails for nonexistent tokens.
func (l *Ledger) TokenURI(tokenID uint64) (string, error) {
	if !l.tokens.Has(tokenID) {
		return "", domain.ErrTokenNotFound.WithDetails("token " + domain.FormatTokenID(tokenID))
	}
	l.mu.RLock()
	base := l.baseURI
	l.mu.RUnlock()
	if base == "" {
		return "", nil
	}
	return base + domain.FormatTokenID(tokenID), nil
}

// TotalSupply returns the number of currently existing tokens.
func (l *Ledger) TotalSupply() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply
}

// Minted returns the number of tokens ever minted (the id counter).
func (l *Ledger) Minted() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minted
}

// Paused reports whether the ledger is paused.
func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}

// BaseURI returns the current metadata base URI.
func (l *Ledger) BaseURI() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.baseURI
}

// Name returns the collection name.
func (l *Ledger) Name() string { return l.cfg.Name }

// Symbol returns the collection symbol.
func (l *Ledger) Symbol() string { return l.cfg.Symbol }

// MaxSupply returns the immutable supply cap.
func (l *Ledger) MaxSupply() uint64 { return l.cfg.MaxSupply }

// Admin returns the administrator address.
func (l *Ledger) Admin() domain.Address { return l.cfg.Admin }

// ============================================================================
// Internal helpers (callers hold l.mu)
// ============================================================================

func (l *Ledger) canSpendLocked(caller domain.Address, tok *domain.Token) bool {
	if caller.IsZero() {
		return false
	}
	return caller == tok.Owner || tok.HasApproval(caller) || l.isOperatorLocked(tok.Owner, caller)
}

func (l *Ledger) isOperatorLocked(owner, operator domain.Address) bool {
	return l.operators[owner][operator]
}

func (l *Ledger) creditLocked(addr domain.Address) {
	n, _ := l.balances.Get(addr)
	l.balances.Set(addr, n+1)
}

func (l *Ledger) debitLocked(addr domain.Address) {
	n, _ := l.balances.Get(addr)
	if n <= 1 {
		l.balances.Delete(addr)
		return
	}
	l.balances.Set(addr, n-1)
}
