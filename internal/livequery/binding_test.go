package livequery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomh/stocklens/internal/replica"
)

type fakeSource struct {
	mu    sync.Mutex
	rows  []string
	err   error
	block chan struct{} // when set, loads park here
	loads int
}

func (f *fakeSource) load(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	rows, err, block := f.rows, f.err, f.block
	f.loads++
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (f *fakeSource) set(rows []string, err error) {
	f.mu.Lock()
	f.rows, f.err = rows, err
	f.mu.Unlock()
}

func newTestStore(t *testing.T) *replica.Store {
	t.Helper()
	store, err := replica.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBindingStaysIdleUntilStart(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{rows: []string{"a"}}
	b := New(store, src.load, "products")
	defer b.Close()

	time.Sleep(20 * time.Millisecond)
	src.mu.Lock()
	loads := src.loads
	src.mu.Unlock()
	if loads != 0 {
		t.Fatalf("binding loaded before Start")
	}
	if !b.Loading() {
		t.Fatalf("unstarted binding should report loading")
	}
}

func TestBindingInitialSnapshot(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{rows: []string{"a", "b"}}
	b := New(store, src.load, "products")
	defer b.Close()

	b.Start()
	waitFor(t, "first snapshot", func() bool { return !b.Loading() })

	rows, gen := b.Snapshot()
	if len(rows) != 2 || gen == 0 {
		t.Fatalf("snapshot = %v gen %d", rows, gen)
	}
	if b.Err() != nil {
		t.Fatalf("unexpected error: %v", b.Err())
	}
}

func TestRefreshFailureKeepsData(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{rows: []string{"a", "b"}}
	b := New(store, src.load, "products")
	defer b.Close()

	b.Start()
	waitFor(t, "first snapshot", func() bool { return !b.Loading() })
	_, genBefore := b.Snapshot()

	src.set(nil, errors.New("replica unavailable"))
	b.Refresh()
	waitFor(t, "sticky error", func() bool { return b.Err() != nil })

	rows, gen := b.Snapshot()
	if len(rows) != 2 || gen != genBefore {
		t.Fatalf("failed refresh disturbed data: rows=%v gen=%d want gen=%d", rows, gen, genBefore)
	}

	// Error clears on the next good snapshot and data replaces wholesale.
	src.set([]string{"a", "b", "c"}, nil)
	b.Refresh()
	waitFor(t, "recovery", func() bool { return b.Err() == nil && len(mustRows(b)) == 3 })
}

func mustRows(b *Binding[string]) []string {
	rows, _ := b.Snapshot()
	return rows
}

func TestBackgroundChangeStreamsNewSnapshot(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{rows: []string{"a"}}
	b := New(store, src.load, "products")
	defer b.Close()

	b.Start()
	waitFor(t, "first snapshot", func() bool { return !b.Loading() })

	src.set([]string{"a", "b"}, nil)
	store.Hub().Publish(replica.Change{Table: "products"})
	waitFor(t, "streamed snapshot", func() bool { return len(mustRows(b)) == 2 })

	if b.Loading() {
		t.Fatalf("background update flipped Loading back on")
	}
}

func TestChangeOnOtherTableIgnored(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{rows: []string{"a"}}
	b := New(store, src.load, "products")
	defer b.Close()

	b.Start()
	waitFor(t, "first snapshot", func() bool { return !b.Loading() })
	src.mu.Lock()
	loads := src.loads
	src.mu.Unlock()

	store.Hub().Publish(replica.Change{Table: "orders"})
	time.Sleep(20 * time.Millisecond)

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.loads != loads {
		t.Fatalf("binding reloaded for a table it is not subscribed to")
	}
}

func TestCloseDuringInflightLoad(t *testing.T) {
	store := newTestStore(t)
	block := make(chan struct{})
	src := &fakeSource{rows: []string{"a"}, block: block}
	b := New(store, src.load, "products")

	b.Start()
	waitFor(t, "load in flight", func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.loads > 0
	})

	b.Close()
	close(block)
	time.Sleep(20 * time.Millisecond)

	rows, gen := b.Snapshot()
	if len(rows) != 0 || gen != 0 {
		t.Fatalf("closed binding applied a snapshot: rows=%v gen=%d", rows, gen)
	}
}

func TestRefreshAfterCloseIsNoop(t *testing.T) {
	store := newTestStore(t)
	src := &fakeSource{rows: []string{"a"}}
	b := New(store, src.load, "products")
	b.Start()
	waitFor(t, "first snapshot", func() bool { return !b.Loading() })

	b.Close()
	b.Close() // idempotent
	b.Refresh()
	time.Sleep(20 * time.Millisecond)

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.loads > 1 {
		t.Fatalf("refresh on closed binding triggered a load")
	}
}
