package replica

import (
	"context"
	"database/sql"
	"math/rand"
	"time"
)

// Feed applies small remote-style mutations to the replica on an interval,
// standing in for the platform's replication service during local use. Each
// tick lands as a normal Apply, so bindings see it as a background snapshot.
type Feed struct {
	store    *Store
	interval time.Duration
}

// NewFeed returns a feed over the given store.
func NewFeed(store *Store, interval time.Duration) *Feed {
	if interval <= 0 {
		interval = 4 * time.Second
	}
	return &Feed{store: store, interval: interval}
}

// Run ticks until ctx is cancelled. Errors from individual ticks are dropped;
// a missed tick just means no background update this round.
func (f *Feed) Run(ctx context.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = f.tick(ctx, rng)
		}
	}
}

func (f *Feed) tick(ctx context.Context, rng *rand.Rand) error {
	switch rng.Intn(3) {
	case 0:
		return f.store.Apply(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				UPDATE products SET qty_available = MAX(0, qty_available + ?)
				WHERE id IN (SELECT id FROM products ORDER BY RANDOM() LIMIT 1)`,
				rng.Intn(11)-5)
			return err
		}, "products")
	case 1:
		return f.store.Apply(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				UPDATE orders SET status_code = MIN(status_code + 1, 4)
				WHERE id IN (SELECT id FROM orders WHERE status_code < 4 ORDER BY RANDOM() LIMIT 1)`)
			return err
		}, "orders")
	default:
		return f.store.Apply(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				UPDATE customers SET order_count = order_count + 1, last_order_at = ?
				WHERE id IN (SELECT id FROM customers ORDER BY RANDOM() LIMIT 1)`,
				Now().Format("2006-01-02"))
			return err
		}, "customers")
	}
}
