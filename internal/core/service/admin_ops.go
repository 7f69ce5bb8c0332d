package service

import (
	"context"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/telemetry/logger"
)

// PauseRequest contains parameters for pausing the ledger.
type PauseRequest struct {
	Caller string // Required; must be the collection administrator
}

// Pause stops minting, transfers, and burns. Fails with
// ErrAlreadyPaused if the ledger is already paused.
func (s *RegistryService) Pause(ctx context.Context, req *PauseRequest) error {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return s.fail(err)
	}

	if err := s.ledger.Pause(caller); err != nil {
		return s.fail(err)
	}
	if err := s.store.SetPaused(ctx, true); err != nil {
		return s.fail(domain.ErrStorage.WithCause(err))
	}

	s.syncGauges()
	logger.L(ctx).Warn("ledger paused", "caller", caller.Short())
	return nil
}

// UnpauseRequest contains parameters for resuming the ledger.
type UnpauseRequest struct {
	Caller string // Required; must be the collection administrator
}

// Unpause restores normal operation. Fails with ErrNotPaused if the
// ledger is not paused.
func (s *RegistryService) Unpause(ctx context.Context, req *UnpauseRequest) error {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return s.fail(err)
	}

	if err := s.ledger.Unpause(caller); err != nil {
		return s.fail(err)
	}
	if err := s.store.SetPaused(ctx, false); err != nil {
		return s.fail(domain.ErrStorage.WithCause(err))
	}

	s.syncGauges()
	logger.L(ctx).Info("ledger unpaused", "caller", caller.Short())
	return nil
}

// SetBaseURIRequest contains parameters for replacing the metadata
// base URI. The new value is stored as-is; an empty string disables
// token URIs.
type SetBaseURIRequest struct {
	Caller  string // Required; must be the collection administrator
	BaseURI string
}

// SetBaseURI replaces the collection's metadata base URI.
func (s *RegistryService) SetBaseURI(ctx context.Context, req *SetBaseURIRequest) error {
	caller, err := parseAddr("caller", req.Caller)
	if err != nil {
		return s.fail(err)
	}

	if err := s.ledger.SetBaseURI(caller, req.BaseURI); err != nil {
		return s.fail(err)
	}
	if err := s.store.SetBaseURI(ctx, req.BaseURI); err != nil {
		return s.fail(domain.ErrStorage.WithCause(err))
	}

	logger.L(ctx).Info("base URI updated", "base_uri", req.BaseURI)
	return nil
}
