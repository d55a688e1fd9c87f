package view

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomh/stocklens/internal/replica"
)

// RawCustomer mirrors one customers row as replicated.
type RawCustomer struct {
	ID            string
	DisplayName   sql.NullString
	Email         sql.NullString
	Phone         sql.NullString
	ChannelCode   sql.NullInt64
	OrderCount    sql.NullInt64
	LifetimeCents sql.NullInt64
	LastOrderAt   sql.NullString
	Tags          sql.NullString
}

// Customer is the normalized customer record shown by the customers screen.
type Customer struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Channel       string
	OrderCount    int
	LifetimeValue float64 // dollars
	LastOrderAt   string  // ISO date as replicated
	Tags          []string
}

// Key returns the record identity.
func (c Customer) Key() string { return c.ID }

// MapCustomer normalizes one raw customer row. Tags replicate as a
// comma-separated string; blank entries are dropped.
func MapCustomer(raw RawCustomer) Customer {
	var tags []string
	for _, t := range strings.Split(raw.Tags.String, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return Customer{
		ID:            raw.ID,
		Name:          raw.DisplayName.String,
		Email:         raw.Email.String,
		Phone:         raw.Phone.String,
		Channel:       ChannelLabel(int(raw.ChannelCode.Int64)),
		OrderCount:    int(raw.OrderCount.Int64),
		LifetimeValue: float64(raw.LifetimeCents.Int64) / 100,
		LastOrderAt:   raw.LastOrderAt.String,
		Tags:          tags,
	}
}

const customerQuery = `
	SELECT id, display_name, email, phone, channel_code,
	       order_count, lifetime_cents, last_order_at, tags
	FROM customers
	ORDER BY display_name ASC, id ASC
`

// LoadCustomers queries the replica and maps every row.
func LoadCustomers(ctx context.Context, store *replica.Store) ([]Customer, error) {
	rows, err := store.Query(ctx, customerQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var raw RawCustomer
		if err := rows.Scan(
			&raw.ID, &raw.DisplayName, &raw.Email, &raw.Phone, &raw.ChannelCode,
			&raw.OrderCount, &raw.LifetimeCents, &raw.LastOrderAt, &raw.Tags,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, MapCustomer(raw))
	}
	return out, rows.Err()
}
