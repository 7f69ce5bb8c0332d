package eventarchive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yndnr/mintvault-go/internal/core/domain"
)

const (
	alice = domain.Address("0x000000000000000000000000000000000000a11c")
	bob   = domain.Address("0x0000000000000000000000000000000000000b0b")
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAppendAndTokenHistory(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	mint := domain.NewTransferEvent(domain.ZeroAddress, alice, 1)
	transfer := domain.NewTransferEvent(alice, bob, 1)
	transfer.Timestamp = mint.Timestamp + 1
	other := domain.NewTransferEvent(domain.ZeroAddress, alice, 2)

	for _, ev := range []*domain.Event{mint, transfer, other} {
		if err := a.Append(ctx, ev); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	history, err := a.TokenHistory(ctx, 1, 0, 0)
	if err != nil {
		t.Fatalf("TokenHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].ID != mint.ID || history[1].ID != transfer.ID {
		t.Error("history should be ordered oldest first")
	}
	if !history[0].IsMint() {
		t.Error("first event should round-trip as a mint")
	}
	if history[1].From != alice || history[1].To != bob {
		t.Errorf("round-tripped addresses: from=%s to=%s", history[1].From, history[1].To)
	}
}

func TestAppendIsIdempotent(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	ev := domain.NewTransferEvent(domain.ZeroAddress, alice, 1)
	if err := a.Append(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if err := a.Append(ctx, ev); err != nil {
		t.Fatalf("duplicate Append() error = %v", err)
	}

	n, err := a.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestAppendNil(t *testing.T) {
	a := openTestArchive(t)
	if err := a.Append(context.Background(), nil); err == nil {
		t.Error("Append(nil) should fail")
	}
}

func TestTokenHistoryPaging(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	base := int64(1_000_000)
	var ids []string
	for i := 0; i < 10; i++ {
		ev := domain.NewTransferEvent(alice, bob, 3)
		ev.Timestamp = base + int64(i)
		ids = append(ids, ev.ID)
		if err := a.Append(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	page, err := a.TokenHistory(ctx, 3, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 3 {
		t.Fatalf("len(page) = %d, want 3", len(page))
	}
	for i, ev := range page {
		if ev.ID != ids[4+i] {
			t.Errorf("page[%d] = %s, want %s", i, ev.ID, ids[4+i])
		}
	}
}

func TestRecent(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	first := domain.NewTransferEvent(domain.ZeroAddress, alice, 1)
	first.Timestamp = 100
	second := domain.NewApprovalForAllEvent(alice, bob, true)
	second.Timestamp = 200

	for _, ev := range []*domain.Event{first, second} {
		if err := a.Append(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := a.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID != second.ID {
		t.Errorf("Recent should be newest first, got %d events", len(recent))
	}
	if recent[0].Kind != domain.EventApprovalForAll || !recent[0].Approved {
		t.Errorf("approval-for-all did not round-trip: %+v", recent[0])
	}
}

func TestHistoryOfUnknownToken(t *testing.T) {
	a := openTestArchive(t)
	history, err := a.TokenHistory(context.Background(), 42, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("unknown token history = %d events, want 0", len(history))
	}
}
