// Package event provides one-to-many delivery of ledger notifications.
//
// The bus fans each published event out to every live subscriber in
// publication order. Subscribers that fall behind buffer internally;
// delivery never blocks the publisher.
package event

import (
	"context"

	"github.com/bobg/multichan"

	"github.com/yndnr/mintvault-go/internal/core/domain"
)

// Bus broadcasts ledger events to subscribers.
type Bus struct {
	w *multichan.W
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{w: multichan.New((*domain.Event)(nil))}
}

// Publish delivers an event to all current subscribers. Nil events
// are ignored.
func (b *Bus) Publish(ev *domain.Event) {
	if ev == nil {
		return
	}
	b.w.Write(ev)
}

// Subscribe registers a new subscriber. The subscription only sees
// events published after it is created. Close it when done.
func (b *Bus) Subscribe() *Subscription {
	return &Subscription{r: b.w.Reader()}
}

// Close shuts the bus down; pending reads on subscriptions return
// with ok=false.
func (b *Bus) Close() {
	b.w.Close()
}

// Subscription is one reader of the bus.
type Subscription struct {
	r *multichan.R
}

// Next blocks until the next event, the context is canceled, or the
// bus is closed. ok is false on cancellation and close.
func (s *Subscription) Next(ctx context.Context) (*domain.Event, bool) {
	v, ok := s.r.Read(ctx)
	if !ok {
		return nil, false
	}
	ev, ok := v.(*domain.Event)
	if !ok || ev == nil {
		return nil, false
	}
	return ev, true
}

// Close releases the subscription's resources in the bus.
func (s *Subscription) Close() {
	s.r.Dispose()
}
