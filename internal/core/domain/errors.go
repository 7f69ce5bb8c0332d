package domain

import (
	"errors"
	"fmt"
)

// DomainError is a business error with a structured code.
// Codes are stable API surface: clients and the HTTP layer dispatch on
// them, the message text is for humans.
type DomainError struct {
	Code    string // Error code (e.g., "MV-TOKN-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches two DomainErrors by code, so sentinels compare equal to
// their WithDetails/WithCause copies.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if err is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the code from an error if it is a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Mint errors (MINT)
// ============================================================================

var (
	// ErrMintToZeroAddress indicates the mint target is the zero address.
	ErrMintToZeroAddress = NewDomainError("MV-MINT-4000", "mint to zero address")

	// ErrMaxSupplyReached indicates the mint would exceed the supply cap.
	ErrMaxSupplyReached = NewDomainError("MV-MINT-4090", "max supply reached")
)

// ============================================================================
// Token errors (TOKN)
// ============================================================================

var (
	// ErrTokenNotFound indicates the token id has no current owner
	// (never minted, or burned).
	ErrTokenNotFound = NewDomainError("MV-TOKN-4040", "token does not exist")
)

// ============================================================================
// Authorization errors (AUTH)
// ============================================================================

var (
	// ErrUnauthorized indicates the caller is neither the owner, the
	// approved spender, nor an approved operator for the token.
	ErrUnauthorized = NewDomainError("MV-AUTH-4030", "caller not authorized")

	// ErrAdminRequired indicates an administrator-only operation was
	// attempted by a non-admin caller.
	ErrAdminRequired = NewDomainError("MV-AUTH-4031", "administrator role required")
)

// ============================================================================
// Pause errors (PAUS)
// ============================================================================

var (
	// ErrLedgerPaused indicates a mutation was rejected because the
	// ledger is paused.
	ErrLedgerPaused = NewDomainError("MV-PAUS-4090", "ledger is paused")

	// ErrAlreadyPaused indicates Pause was called while already paused.
	ErrAlreadyPaused = NewDomainError("MV-PAUS-4091", "ledger already paused")

	// ErrNotPaused indicates Unpause was called while active.
	ErrNotPaused = NewDomainError("MV-PAUS-4092", "ledger is not paused")
)

// ============================================================================
// Configuration errors (CONF)
// ============================================================================

var (
	// ErrInvalidConfiguration indicates the collection configuration is
	// invalid (non-positive max supply, bad admin address).
	ErrInvalidConfiguration = NewDomainError("MV-CONF-4000", "invalid collection configuration")
)

// ============================================================================
// Argument errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates a malformed argument (bad address,
	// unparsable token id).
	ErrInvalidArgument = NewDomainError("MV-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("MV-ARG-1002", "missing required argument")
)

// ============================================================================
// System errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal server error.
	ErrInternal = NewDomainError("MV-SYS-5000", "internal server error")

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewDomainError("MV-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("MV-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("MV-SYS-4290", "too many requests")
)
