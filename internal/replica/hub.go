package replica

import "sync"

// Change records that rows in a table were inserted, updated or deleted.
// Subscribers re-run their query rather than patching; the change carries no
// row payload on purpose.
type Change struct {
	Table string
}

// Hub fans table changes out to subscribers. Wakeups are coalesced: each
// subscriber channel holds at most one pending change, which is enough for a
// notify-and-requery consumer.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	tables map[string]bool
	ch     chan Change
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscriber)}
}

// Subscribe registers interest in the given tables (all tables when none are
// named). The returned cancel func is idempotent and safe to call at any time.
func (h *Hub) Subscribe(tables ...string) (<-chan Change, func()) {
	sub := &subscriber{ch: make(chan Change, 1)}
	if len(tables) > 0 {
		sub.tables = make(map[string]bool, len(tables))
		for _, t := range tables {
			sub.tables[t] = true
		}
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Publish delivers a change to every interested subscriber without blocking.
// A subscriber with a wakeup already pending is skipped.
func (h *Hub) Publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if sub.tables != nil && !sub.tables[c.Table] {
			continue
		}
		select {
		case sub.ch <- c:
		default:
		}
	}
}
