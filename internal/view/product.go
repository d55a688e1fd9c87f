package view

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/tomh/stocklens/internal/replica"
)

// RawProduct mirrors one products row as replicated, nulls and all.
type RawProduct struct {
	ID             string
	SKU            string
	ProductName    sql.NullString
	BrandName      sql.NullString
	ChannelCode    sql.NullInt64
	UnitPriceCents sql.NullInt64
	UnitCostCents  sql.NullInt64
	QtyAvailable   sql.NullInt64
	QtyReserved    sql.NullInt64
	IsArchived     sql.NullInt64
	UpdatedAt      sql.NullString
}

// Product is the normalized product record shown by the products screen.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Brand        string
	Channel      string
	UnitPrice    float64 // dollars
	UnitCost     float64
	Margin       float64 // percent, one decimal
	QtyAvailable int
	QtyReserved  int
	Archived     bool
	UpdatedAt    string
}

// Key returns the record identity.
func (p Product) Key() string { return p.ID }

// MapProduct normalizes one raw product row.
func MapProduct(raw RawProduct) Product {
	price := float64(raw.UnitPriceCents.Int64) / 100
	cost := float64(raw.UnitCostCents.Int64) / 100
	var margin float64
	if price > 0 {
		margin = math.Round((price-cost)/price*1000) / 10
	}
	return Product{
		ID:           raw.ID,
		SKU:          raw.SKU,
		Name:         raw.ProductName.String,
		Brand:        raw.BrandName.String,
		Channel:      ChannelLabel(int(raw.ChannelCode.Int64)),
		UnitPrice:    price,
		UnitCost:     cost,
		Margin:       margin,
		QtyAvailable: int(raw.QtyAvailable.Int64),
		QtyReserved:  int(raw.QtyReserved.Int64),
		Archived:     raw.IsArchived.Int64 == 1,
		UpdatedAt:    raw.UpdatedAt.String,
	}
}

const productQuery = `
	SELECT id, sku, product_name, brand_name, channel_code,
	       unit_price_cents, unit_cost_cents, qty_available, qty_reserved,
	       is_archived, updated_at
	FROM products
	WHERE is_archived = 0
	ORDER BY product_name ASC, id ASC
`

// LoadProducts queries the replica and maps every row.
func LoadProducts(ctx context.Context, store *replica.Store) ([]Product, error) {
	rows, err := store.Query(ctx, productQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var raw RawProduct
		if err := rows.Scan(
			&raw.ID, &raw.SKU, &raw.ProductName, &raw.BrandName, &raw.ChannelCode,
			&raw.UnitPriceCents, &raw.UnitCostCents, &raw.QtyAvailable, &raw.QtyReserved,
			&raw.IsArchived, &raw.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, MapProduct(raw))
	}
	return out, rows.Err()
}
