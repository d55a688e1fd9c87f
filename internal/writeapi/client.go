// Package writeapi is the consumed seam for remote mutations. The list
// engine never patches view records optimistically: a screen calls the
// client, then asks its binding to refresh and waits for the replicated
// result.
package writeapi

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomh/stocklens/internal/replica"
)

// Client is the slice of the platform write API the screens use.
type Client interface {
	ArchiveProducts(ctx context.Context, ids []string) error
	AssignPicker(ctx context.Context, orderIDs []string, picker string) error
	TagCustomers(ctx context.Context, ids []string, tag string) error
}

// Loopback applies writes straight to the local replica and publishes the
// matching change, standing in for the platform API plus its replication
// round trip during local use and tests.
type Loopback struct {
	Store *replica.Store
}

// ArchiveProducts marks the given products archived.
func (l *Loopback) ArchiveProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return l.Store.Apply(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf("UPDATE products SET is_archived = 1 WHERE id IN (%s)", placeholders(len(ids)))
		if _, err := tx.ExecContext(ctx, query, toAny(ids)...); err != nil {
			return fmt.Errorf("archive products: %w", err)
		}
		return nil
	}, "products")
}

// AssignPicker sets the picker on the given orders and moves pending ones to
// picking.
func (l *Loopback) AssignPicker(ctx context.Context, orderIDs []string, picker string) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return l.Store.Apply(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`
			UPDATE orders SET picker_name = ?, status_code = MAX(status_code, 2)
			WHERE id IN (%s)`, placeholders(len(orderIDs)))
		args := append([]any{picker}, toAny(orderIDs)...)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("assign picker: %w", err)
		}
		return nil
	}, "orders")
}

// TagCustomers appends tag to each customer's tag list, skipping customers
// already carrying it.
func (l *Loopback) TagCustomers(ctx context.Context, ids []string, tag string) error {
	tag = strings.TrimSpace(tag)
	if len(ids) == 0 || tag == "" {
		return nil
	}
	return l.Store.Apply(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			var tags sql.NullString
			err := tx.QueryRowContext(ctx, "SELECT tags FROM customers WHERE id = ?", id).Scan(&tags)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("read tags: %w", err)
			}
			if hasTag(tags.String, tag) {
				continue
			}
			next := tag
			if tags.String != "" {
				next = tags.String + "," + tag
			}
			if _, err := tx.ExecContext(ctx, "UPDATE customers SET tags = ? WHERE id = ?", next, id); err != nil {
				return fmt.Errorf("tag customer: %w", err)
			}
		}
		return nil
	}, "customers")
}

func hasTag(tags, tag string) bool {
	for _, t := range strings.Split(tags, ",") {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
