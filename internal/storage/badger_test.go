package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

func newTestEngine(t *testing.T) *BadgerEngine {
	t.Helper()
	cfg := DefaultKVConfig(t.TempDir())
	// Keep test databases small and fast.
	cfg.Badger.SyncWrites = false
	cfg.Badger.CacheSize = 1 << 20
	cfg.Badger.ValueLogFileSize = 1 << 20

	e, err := NewBadgerEngine(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewBadgerEngine() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSetGetDelete(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	key := []byte("tok/0000000000000001")
	if err := e.Set(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := e.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Get() = %q", got)
	}

	if err := e.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := e.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrKeyNotFound", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Get(context.Background(), []byte("absent")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("err = %v, want ErrKeyNotFound", err)
	}
}

func TestScanPrefixInOrder(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 3; i >= 1; i-- {
		key := fmt.Appendf(nil, "tok/%016x", i)
		if err := e.Set(ctx, key, fmt.Appendf(nil, "v%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.Set(ctx, []byte("meta/minted"), []byte("x")); err != nil {
		t.Fatal(err)
	}

	var seen []string
	err := e.Scan(ctx, []byte("tok/"), func(key, value []byte) bool {
		seen = append(seen, string(value))
		return true
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(seen) != 3 || seen[0] != "v1" || seen[2] != "v3" {
		t.Errorf("scan order = %v", seen)
	}
}

func TestScanStopsWhenCallbackReturnsFalse(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := e.Set(ctx, fmt.Appendf(nil, "k/%d", i), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	err := e.Scan(ctx, []byte("k/"), func(_, _ []byte) bool {
		count++
		return count < 2
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("callback ran %d times, want 2", count)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := newTestEngine(t)
	ctx := context.Background()

	if err := src.Set(ctx, []byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := src.Set(ctx, []byte("b"), []byte("2")); err != nil {
		t.Fatal(err)
	}

	snap, err := src.SaveSnapshot(ctx)
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	data, err := io.ReadAll(snap)
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Close(); err != nil {
		t.Fatal(err)
	}

	dst := newTestEngine(t)
	if err := dst.Set(ctx, []byte("stale"), []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := dst.LoadSnapshot(ctx, bytes.NewReader(data)); err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if v, err := dst.Get(ctx, []byte("a")); err != nil || string(v) != "1" {
		t.Errorf("restored a = %q, %v", v, err)
	}
	if _, err := dst.Get(ctx, []byte("stale")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("stale key survived restore: %v", err)
	}
}

func TestStats(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Stats(context.Background()); err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
}

func TestGC(t *testing.T) {
	e := newTestEngine(t)
	// A near-empty database has nothing to reclaim; GC must still
	// succeed and record the run.
	if _, err := e.GC(context.Background()); err != nil {
		t.Fatalf("GC() error = %v", err)
	}
	st, err := e.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.LastGCTime == 0 {
		t.Error("LastGCTime not recorded")
	}
}
