// Package livequery binds a declarative replica query to a continuously
// updated snapshot of mapped view records. A binding owns one goroutine that
// reloads on replica change notifications (streaming) and on explicit Refresh
// calls, replacing the snapshot wholesale each time. Consumers drain Events
// and read state through the accessors; all state transitions are atomic.
package livequery

import (
	"context"
	"sync"

	"github.com/tomh/stocklens/internal/replica"
)

// Loader runs the binding's query and returns a fully mapped snapshot.
type Loader[R any] func(ctx context.Context) ([]R, error)

// Binding is a live view over one replica query.
type Binding[R any] struct {
	mu         sync.Mutex
	data       []R
	gen        uint64
	hasData    bool
	streaming  bool
	refreshing bool
	err        error
	closed     bool

	loader    Loader[R]
	changes   <-chan replica.Change
	cancelSub func()
	ctx       context.Context
	cancel    context.CancelFunc
	reload    chan struct{}
	events    chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// New builds a binding over store for the given loader, subscribed to changes
// on the named tables. The binding stays idle until Start is called, which is
// the enabled guard: a screen that is mounted but disabled simply never
// starts its binding.
func New[R any](store *replica.Store, loader Loader[R], tables ...string) *Binding[R] {
	ctx, cancel := context.WithCancel(context.Background())
	changes, cancelSub := store.Hub().Subscribe(tables...)
	return &Binding[R]{
		loader:    loader,
		changes:   changes,
		cancelSub: cancelSub,
		ctx:       ctx,
		cancel:    cancel,
		reload:    make(chan struct{}, 1),
		events:    make(chan struct{}, 1),
	}
}

// Start begins loading. Idempotent; a no-op after Close.
func (b *Binding[R]) Start() {
	b.startOnce.Do(func() { go b.run() })
}

// Events signals that state changed and accessors should be re-read. Wakeups
// coalesce, so one pending event may cover several transitions.
func (b *Binding[R]) Events() <-chan struct{} { return b.events }

// Done is closed once the binding is closed, so event waiters can unblock.
func (b *Binding[R]) Done() <-chan struct{} { return b.ctx.Done() }

// Snapshot returns the latest full snapshot and its generation. The slice is
// replaced, never mutated, so callers may hold it across events.
func (b *Binding[R]) Snapshot() ([]R, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data, b.gen
}

// Loading reports whether the first snapshot is still outstanding.
func (b *Binding[R]) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.hasData
}

// Streaming reports whether a background update is superseding delivered
// data. Advisory only; correctness never depends on it.
func (b *Binding[R]) Streaming() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streaming
}

// Refreshing reports whether a manual refresh is in flight.
func (b *Binding[R]) Refreshing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshing
}

// Err returns the last subscription error. Sticky until the next successful
// snapshot; stale data stays readable alongside it.
func (b *Binding[R]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Refresh requests an out-of-band reload. It settles independently of whether
// new data differs, coalesces with a pending request, and is a silent no-op
// on a closed binding.
func (b *Binding[R]) Refresh() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	select {
	case b.reload <- struct{}{}:
	default:
	}
}

// Close stops the binding. Safe to call at any time, including mid-refresh;
// no state updates occur afterwards.
func (b *Binding[R]) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
		b.cancelSub()
		b.cancel()
	})
}

func (b *Binding[R]) run() {
	b.load(false, false)
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-b.changes:
			b.load(true, false)
		case <-b.reload:
			b.load(false, true)
		}
	}
}

// load runs the loader and applies the result as one atomic snapshot
// replacement. Results arriving after Close are dropped on the floor.
func (b *Binding[R]) load(streaming, refreshing bool) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.streaming = streaming && b.hasData
	b.refreshing = refreshing
	b.mu.Unlock()
	b.notify()

	rows, err := b.loader(b.ctx)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.streaming = false
	b.refreshing = false
	if err != nil {
		// Keep the previous snapshot; a transient failure never blanks
		// an already populated table.
		b.err = err
	} else {
		b.data = rows
		b.gen++
		b.hasData = true
		b.err = nil
	}
	b.mu.Unlock()
	b.notify()
}

func (b *Binding[R]) notify() {
	select {
	case b.events <- struct{}{}:
	default:
	}
}
