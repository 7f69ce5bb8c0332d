package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainErrorError(t *testing.T) {
	err := NewDomainError("MV-TEST-0001", "test message")
	if got := err.Error(); got != "[MV-TEST-0001] test message" {
		t.Errorf("Error() = %q", got)
	}

	withDetails := err.WithDetails("more context")
	if !strings.Contains(withDetails.Error(), "more context") {
		t.Errorf("Error() with details = %q", withDetails.Error())
	}
}

func TestDomainErrorIs(t *testing.T) {
	if !errors.Is(ErrTokenNotFound.WithDetails("id 42"), ErrTokenNotFound) {
		t.Error("WithDetails copy should match sentinel via errors.Is")
	}
	if errors.Is(ErrTokenNotFound, ErrUnauthorized) {
		t.Error("different codes should not match")
	}
	if errors.Is(ErrTokenNotFound, errors.New("plain")) {
		t.Error("DomainError should not match plain errors")
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrStorage.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestDomainErrorThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", ErrLedgerPaused)

	if !IsDomainError(wrapped, "MV-PAUS-4090") {
		t.Error("IsDomainError should see through fmt wrapping")
	}
	if !IsDomainError(wrapped, "") {
		t.Error("IsDomainError with empty code should match any DomainError")
	}
	if got := GetErrorCode(wrapped); got != "MV-PAUS-4090" {
		t.Errorf("GetErrorCode() = %q", got)
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode(plain) = %q, want empty", got)
	}
}

func TestSentinelCodesAreUnique(t *testing.T) {
	sentinels := []*DomainError{
		ErrMintToZeroAddress, ErrMaxSupplyReached, ErrTokenNotFound,
		ErrUnauthorized, ErrAdminRequired, ErrLedgerPaused,
		ErrAlreadyPaused, ErrNotPaused, ErrInvalidConfiguration,
		ErrInvalidArgument, ErrMissingArgument,
		ErrInternal, ErrStorage, ErrBadRequest, ErrRateLimited,
	}

	seen := make(map[string]bool)
	for _, s := range sentinels {
		if seen[s.Code] {
			t.Errorf("duplicate error code %s", s.Code)
		}
		seen[s.Code] = true
	}
}
