package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksRunInReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []int
	h.OnShutdown(func(context.Context) error {
		order = append(order, 1)
		return nil
	})
	h.OnShutdown(func(context.Context) error {
		order = append(order, 2)
		return nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("hook order = %v, want [2 1]", order)
	}
}

func TestWaitReturnsLastHookError(t *testing.T) {
	h := NewHandler(time.Second)

	wantErr := errors.New("store close failed")
	h.OnShutdown(func(context.Context) error { return wantErr })
	h.OnShutdown(func(context.Context) error { return nil })

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	if err := <-errCh; !errors.Is(err, wantErr) {
		t.Errorf("Wait() error = %v, want %v", err, wantErr)
	}
}

func TestDoneClosesAfterShutdown(t *testing.T) {
	h := NewHandler(time.Second)

	go h.Wait()
	h.Trigger()

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done channel never closed")
	}
}

func TestTriggerIsIdempotent(t *testing.T) {
	h := NewHandler(time.Second)
	go h.Wait()

	h.Trigger()
	h.Trigger() // must not panic

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
