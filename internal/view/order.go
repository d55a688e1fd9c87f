package view

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomh/stocklens/internal/replica"
)

// RawOrder mirrors one orders row as replicated.
type RawOrder struct {
	ID          string
	OrderNumber string
	CustomerID  sql.NullString
	StatusCode  sql.NullInt64
	ChannelCode sql.NullInt64
	TotalCents  sql.NullInt64
	ItemCount   sql.NullInt64
	PickerName  sql.NullString
	PlacedAt    sql.NullString
}

// Order is the normalized order record shown by the orders screen.
type Order struct {
	ID         string
	Number     string
	CustomerID string
	StatusCode int
	Status     string
	Channel    string
	Total      float64 // dollars
	ItemCount  int
	Picker     string
	PlacedAt   string // RFC 3339 as replicated
}

// Key returns the record identity.
func (o Order) Key() string { return o.ID }

// MapOrder normalizes one raw order row.
func MapOrder(raw RawOrder) Order {
	code := int(raw.StatusCode.Int64)
	return Order{
		ID:         raw.ID,
		Number:     raw.OrderNumber,
		CustomerID: raw.CustomerID.String,
		StatusCode: code,
		Status:     StatusLabel(code),
		Channel:    ChannelLabel(int(raw.ChannelCode.Int64)),
		Total:      float64(raw.TotalCents.Int64) / 100,
		ItemCount:  int(raw.ItemCount.Int64),
		Picker:     raw.PickerName.String,
		PlacedAt:   raw.PlacedAt.String,
	}
}

const orderQuery = `
	SELECT id, order_number, customer_id, status_code, channel_code,
	       total_cents, item_count, picker_name, placed_at
	FROM orders
	ORDER BY placed_at DESC, id ASC
`

// LoadOrders queries the replica and maps every row.
func LoadOrders(ctx context.Context, store *replica.Store) ([]Order, error) {
	rows, err := store.Query(ctx, orderQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var raw RawOrder
		if err := rows.Scan(
			&raw.ID, &raw.OrderNumber, &raw.CustomerID, &raw.StatusCode, &raw.ChannelCode,
			&raw.TotalCents, &raw.ItemCount, &raw.PickerName, &raw.PlacedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, MapOrder(raw))
	}
	return out, rows.Err()
}
