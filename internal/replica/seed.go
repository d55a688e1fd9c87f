package replica

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var seedBrands = []string{
	"GEEK BAR", "HAPPY HOUR", "LOST MARY", "NORTHSIDE ROASTERS", "EVERYDAY ESSENTIALS",
}

var seedProductNames = []string{
	"Pulse X", "777", "Ice Blast", "House Blend 1kg", "Paper Towels 6pk",
	"Cherry Cola", "Mint Gum", "Cold Brew Can", "Energy Shot", "Trail Mix",
}

var seedCustomerNames = []string{
	"Corner Mart", "Eastside Grocers", "Lakeview Deli", "Metro Convenience",
	"Sunrise Liquor", "Hilltop Pantry", "Dockside Traders", "Greenfield IGA",
}

var seedPickers = []string{"ali", "renee", "marcus"}

// Seed populates an empty replica with demo data so the console has something
// to show before a real replication feed is attached.
func Seed(ctx context.Context, s *Store) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := Now()

	return s.Apply(ctx, func(tx *sql.Tx) error {
		var custIDs []string
		for _, name := range seedCustomerNames {
			id := uuid.NewString()
			custIDs = append(custIDs, id)
			_, err := tx.ExecContext(ctx, `
				INSERT INTO customers (id, display_name, email, phone, channel_code, order_count, lifetime_cents, last_order_at, tags)
				VALUES (?, ?, ?, NULL, ?, ?, ?, ?, NULL)`,
				id, name, fmt.Sprintf("orders@%s.example", uuid.NewString()[:8]),
				rng.Intn(2)+1, rng.Intn(40), int64(rng.Intn(900_000)),
				now.AddDate(0, 0, -rng.Intn(30)).Format("2006-01-02"),
			)
			if err != nil {
				return fmt.Errorf("seed customer: %w", err)
			}
		}

		for i := 0; i < 40; i++ {
			brand := seedBrands[rng.Intn(len(seedBrands))]
			name := seedProductNames[rng.Intn(len(seedProductNames))]
			price := int64(rng.Intn(4000) + 200)
			cost := price - int64(rng.Intn(int(price/2)+1))
			qty := rng.Intn(60)
			if rng.Intn(5) == 0 {
				qty = 0 // some critical stock rows
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, sku, product_name, brand_name, channel_code, unit_price_cents, unit_cost_cents, qty_available, qty_reserved, is_archived, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
				uuid.NewString(), fmt.Sprintf("SKU-%05d", i+1), fmt.Sprintf("%s %s", brand, name),
				brand, rng.Intn(2)+1, price, cost, qty, rng.Intn(5),
				now.Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("seed product: %w", err)
			}
		}

		for i := 0; i < 25; i++ {
			var picker any
			if rng.Intn(3) == 0 {
				picker = seedPickers[rng.Intn(len(seedPickers))]
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO orders (id, order_number, customer_id, status_code, channel_code, total_cents, item_count, picker_name, placed_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), fmt.Sprintf("ORD-%06d", 1000+i),
				custIDs[rng.Intn(len(custIDs))], rng.Intn(5), rng.Intn(2)+1,
				int64(rng.Intn(150_000)+1_000), rng.Intn(20)+1, picker,
				now.AddDate(0, 0, -rng.Intn(14)).Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("seed order: %w", err)
			}
		}
		return nil
	}, "products", "orders", "customers")
}
