package service

import (
	"context"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/telemetry/logger"
)

// ============================================================================
// Mint
// ============================================================================

// MintRequest contains parameters for minting a new token.
type MintRequest struct {
	Caller string // Required; must be the collection administrator
	To     string // Required; recipient address
}

// MintResponse contains the result of a mint.
type MintResponse struct {
	TokenID  uint64
	Owner    domain.Address
	TokenURI string
}

// Mint allocates the next token id to the requested recipient.
func (s *RegistryService) Mint(ctx context.Context, req *MintRequest) (*MintResponse, error) {
	// 1. Normalize addresses
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return nil, s.fail(err)
	}
	to, err := parseAddr("to", req.To)
	if err != nil {
		return nil, s.fail(err)
	}

	// 2. Apply to the ledger
	id, ev, err := s.ledger.Mint(caller, to)
	if err != nil {
		return nil, s.fail(err)
	}

	// 3. Persist the delta
	if err := s.persistMint(ctx, id, to); err != nil {
		return nil, s.fail(err)
	}

	// 4. Notify
	s.emit(ctx, ev)
	if s.metrics != nil {
		s.metrics.MintsTotal.Inc()
	}
	s.syncGauges()

	uri, _ := s.ledger.TokenURI(id)
	logger.L(ctx).Info("token minted", "token_id", id, "owner", to.Short())

	return &MintResponse{TokenID: id, Owner: to, TokenURI: uri}, nil
}

func (s *RegistryService) persistMint(ctx context.Context, id uint64, to domain.Address) error {
	if err := s.store.PutToken(ctx, &domain.Token{ID: id, Owner: to}); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if err := s.store.SetMinted(ctx, id); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// ============================================================================
// Transfer
// ============================================================================

// TransferRequest contains parameters for a token transfer.
type TransferRequest struct {
	Caller  string // Required; owner, approved spender, or operator
	From    string // Required; current owner
	To      string // Required; recipient
	TokenID uint64 // Required
}

// TransferResponse contains the result of a transfer.
type TransferResponse struct {
	TokenID uint64
	From    domain.Address
	To      domain.Address
}

// Transfer reassigns ownership of a token.
func (s *RegistryService) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return nil, s.fail(err)
	}
	from, err := parseAddr("from", req.From)
	if err != nil {
		return nil, s.fail(err)
	}
	to, err := parseAddr("to", req.To)
	if err != nil {
		return nil, s.fail(err)
	}

	ev, err := s.ledger.Transfer(caller, from, to, req.TokenID)
	if err != nil {
		return nil, s.fail(err)
	}

	// The transfer rewrote owner and cleared the approval; persist the
	// full record.
	if err := s.store.PutToken(ctx, &domain.Token{ID: req.TokenID, Owner: to}); err != nil {
		return nil, s.fail(domain.ErrStorage.WithCause(err))
	}

	s.emit(ctx, ev)
	if s.metrics != nil {
		s.metrics.TransfersTotal.Inc()
	}

	logger.L(ctx).Info("token transferred",
		"token_id", req.TokenID, "from", from.Short(), "to", to.Short())

	return &TransferResponse{TokenID: req.TokenID, From: from, To: to}, nil
}

// ============================================================================
// Approvals
// ============================================================================

// ApproveRequest contains parameters for setting a token's approved
// spender. Passing the zero address as spender revokes the approval.
type ApproveRequest struct {
	Caller  string // Required; token owner or operator
	Spender string // Required; zero address to revoke
	TokenID uint64 // Required
}

// ApproveResponse contains the result of an approval change.
type ApproveResponse struct {
	TokenID uint64
	Owner   domain.Address
	Spender domain.Address
}

// Approve sets or revokes the token's single approved spender.
func (s *RegistryService) Approve(ctx context.Context, req *ApproveRequest) (*ApproveResponse, error) {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return nil, s.fail(err)
	}
	spender, err := parseAddr("spender", req.Spender)
	if err != nil {
		return nil, s.fail(err)
	}

	ev, err := s.ledger.Approve(caller, spender, req.TokenID)
	if err != nil {
		return nil, s.fail(err)
	}

	tok, err := s.ledger.GetToken(req.TokenID)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.store.PutToken(ctx, tok); err != nil {
		return nil, s.fail(domain.ErrStorage.WithCause(err))
	}

	s.emit(ctx, ev)
	if s.metrics != nil {
		s.metrics.ApprovalsTotal.Inc()
	}

	return &ApproveResponse{TokenID: req.TokenID, Owner: ev.Owner, Spender: spender}, nil
}

// SetApprovalForAllRequest contains parameters for an operator grant.
type SetApprovalForAllRequest struct {
	Caller   string // Required; the granting owner
	Operator string // Required; must not be the zero address
	Approved bool
}

// SetApprovalForAllResponse contains the result of an operator change.
type SetApprovalForAllResponse struct {
	Owner    domain.Address
	Operator domain.Address
	Approved bool
}

// SetApprovalForAll grants or revokes blanket authority over all of
// the caller's tokens.
func (s *RegistryService) SetApprovalForAll(ctx context.Context, req *SetApprovalForAllRequest) (*SetApprovalForAllResponse, error) {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return nil, s.fail(err)
	}
	operator, err := parseAddr("operator", req.Operator)
	if err != nil {
		return nil, s.fail(err)
	}

	ev, err := s.ledger.SetApprovalForAll(caller, operator, req.Approved)
	if err != nil {
		return nil, s.fail(err)
	}

	if req.Approved {
		err = s.store.PutOperator(ctx, caller, operator)
	} else {
		err = s.store.DeleteOperator(ctx, caller, operator)
	}
	if err != nil {
		return nil, s.fail(domain.ErrStorage.WithCause(err))
	}

	s.emit(ctx, ev)
	if s.metrics != nil {
		s.metrics.ApprovalsTotal.Inc()
	}

	return &SetApprovalForAllResponse{
		Owner:    caller,
		Operator: operator,
		Approved: req.Approved,
	}, nil
}

// ============================================================================
// Burn
// ============================================================================

// BurnRequest contains parameters for destroying a token.
type BurnRequest struct {
	Caller  string // Required; owner, approved spender, or operator
	TokenID uint64 // Required
}

// BurnResponse contains the result of a burn.
type BurnResponse struct {
	TokenID uint64
	Owner   domain.Address // Owner at the time of the burn
}

// Burn permanently removes a token. The id is never reallocated.
func (s *RegistryService) Burn(ctx context.Context, req *BurnRequest) (*BurnResponse, error) {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return nil, s.fail(err)
	}

	ev, err := s.ledger.Burn(caller, req.TokenID)
	if err != nil {
		return nil, s.fail(err)
	}

	if err := s.store.DeleteToken(ctx, req.TokenID); err != nil {
		return nil, s.fail(domain.ErrStorage.WithCause(err))
	}

	s.emit(ctx, ev)
	if s.metrics != nil {
		s.metrics.BurnsTotal.Inc()
	}
	s.syncGauges()

	logger.L(ctx).Info("token burned", "token_id", req.TokenID, "owner", ev.From.Short())

	return &BurnResponse{TokenID: req.TokenID, Owner: ev.From}, nil
}
