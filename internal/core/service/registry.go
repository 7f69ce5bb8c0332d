package service

import (
	"context"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/ledger"
	"github.com/yndnr/mintvault-go/internal/event"
	"github.com/yndnr/mintvault-go/internal/eventarchive"
	"github.com/yndnr/mintvault-go/internal/telemetry/logger"
	"github.com/yndnr/mintvault-go/internal/telemetry/metric"
)

// RegistryService coordinates ledger mutations, persistence, and event
// delivery for one collection.
type RegistryService struct {
	ledger  *ledger.Ledger
	store   LedgerStore
	bus     *event.Bus
	archive *eventarchive.Archive
	metrics *metric.Registry
}

// Options carries the optional collaborators of a RegistryService.
// Any field may be nil; the service degrades to ledger + store only.
type Options struct {
	Bus     *event.Bus
	Archive *eventarchive.Archive
	Metrics *metric.Registry
}

// NewRegistryService creates a service over the given ledger and store.
func NewRegistryService(led *ledger.Ledger, store LedgerStore, opts Options) *RegistryService {
	return &RegistryService{
		ledger:  led,
		store:   store,
		bus:     opts.Bus,
		archive: opts.Archive,
		metrics: opts.Metrics,
	}
}

// Recover loads the persisted state into the ledger. Call once on
// startup, before the service accepts requests.
func (s *RegistryService) Recover(ctx context.Context) error {
	st, found, err := s.store.LoadState(ctx)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	// A store with no ledger keys at all is a first boot: seed it from
	// the configured collection instead of restoring. Presence is
	// reported by the store, not inferred from zero values, so an
	// initialized store that was paused before any mint keeps its flag.
	if !found {
		if err := s.store.SetBaseURI(ctx, s.ledger.BaseURI()); err != nil {
			return domain.ErrStorage.WithCause(err)
		}
		if err := s.store.SetMinted(ctx, 0); err != nil {
			return domain.ErrStorage.WithCause(err)
		}
		if err := s.store.SetPaused(ctx, false); err != nil {
			return domain.ErrStorage.WithCause(err)
		}
		s.syncGauges()
		logger.L(ctx).Info("ledger store initialized",
			"collection", s.ledger.Name())
		return nil
	}

	if err := s.ledger.Restore(st); err != nil {
		return err
	}

	s.syncGauges()
	logger.L(ctx).Info("ledger state recovered",
		"tokens", len(st.Tokens),
		"minted", st.Minted,
		"paused", st.Paused,
	)
	return nil
}

// emit delivers an accepted mutation's event to the bus and, best
// effort, to the archive. A failed archive append is logged and never
// fails the originating operation.
func (s *RegistryService) emit(ctx context.Context, ev *domain.Event) {
	if ev == nil {
		return
	}
	if s.bus != nil {
		s.bus.Publish(ev)
	}
	if s.archive != nil {
		if err := s.archive.Append(ctx, ev); err != nil {
			logger.L(ctx).Warn("event archive append failed",
				"event_id", ev.ID, "error", err)
		} else if s.metrics != nil {
			s.metrics.EventsArchived.Inc()
		}
	}
}

// fail counts the error by code and passes it through.
func (s *RegistryService) fail(err error) error {
	if s.metrics != nil {
		s.metrics.OperationErrors.WithLabelValues(domain.GetErrorCode(err)).Inc()
	}
	return err
}

// syncGauges refreshes the collection state gauges from the ledger.
func (s *RegistryService) syncGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.TotalSupply.Set(float64(s.ledger.TotalSupply()))
	if s.ledger.Paused() {
		s.metrics.Paused.Set(1)
	} else {
		s.metrics.Paused.Set(0)
	}
}

// parseAddr normalizes a request address, naming the field on failure.
func parseAddr(field, raw string) (domain.Address, error) {
	if raw == "" {
		return "", domain.ErrMissingArgument.WithDetails(field + " is required")
	}
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		return "", domain.ErrInvalidArgument.WithDetails(field + ": " + raw)
	}
	return addr, nil
}
