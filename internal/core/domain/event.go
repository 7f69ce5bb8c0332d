package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind discriminates ledger notification events.
type EventKind string

const (
	// EventTransfer is emitted on mint (from = zero), transfer, and
	// burn (to = zero).
	EventTransfer EventKind = "transfer"

	// EventApproval is emitted when a token's approved spender is set
	// or revoked.
	EventApproval EventKind = "approval"

	// EventApprovalForAll is emitted when an operator approval is set
	// or cleared.
	EventApprovalForAll EventKind = "approval_for_all"
)

// Event is a ledger notification, observable by external subscribers.
// One event is emitted per successful mutation.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Kind is the event discriminator.
	Kind EventKind `json:"kind"`

	// Timestamp is the emission time in Unix milliseconds.
	Timestamp int64 `json:"ts"`

	// From/To are set for transfer events. From is the zero address on
	// mint, To is the zero address on burn.
	From Address `json:"from,omitempty"`
	To   Address `json:"to,omitempty"`

	// Owner/Spender are set for approval events.
	Owner   Address `json:"owner,omitempty"`
	Spender Address `json:"spender,omitempty"`

	// Operator and Approved are set for approval-for-all events.
	Operator Address `json:"operator,omitempty"`
	Approved bool    `json:"approved,omitempty"`

	// TokenID is set for transfer and approval events; zero for
	// approval-for-all, which covers all of the owner's tokens.
	TokenID uint64 `json:"token_id,omitempty"`
}

// NewTransferEvent builds a transfer notification (from, to, tokenID).
func NewTransferEvent(from, to Address, tokenID uint64) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Kind:      EventTransfer,
		Timestamp: time.Now().UnixMilli(),
		From:      from,
		To:        to,
		TokenID:   tokenID,
	}
}

// NewApprovalEvent builds an approval notification (owner, spender, tokenID).
func NewApprovalEvent(owner, spender Address, tokenID uint64) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Kind:      EventApproval,
		Timestamp: time.Now().UnixMilli(),
		Owner:     owner,
		Spender:   spender,
		TokenID:   tokenID,
	}
}

// NewApprovalForAllEvent builds an operator approval notification.
func NewApprovalForAllEvent(owner, operator Address, approved bool) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Kind:      EventApprovalForAll,
		Timestamp: time.Now().UnixMilli(),
		Owner:     owner,
		Operator:  operator,
		Approved:  approved,
	}
}

// IsMint reports whether the event is a mint-style transfer.
func (e *Event) IsMint() bool {
	return e.Kind == EventTransfer && e.From.IsZero()
}

// IsBurn reports whether the event is a burn-style transfer.
func (e *Event) IsBurn() bool {
	return e.Kind == EventTransfer && e.To.IsZero()
}
