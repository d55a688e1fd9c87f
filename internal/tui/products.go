package tui

import (
	"context"
	"fmt"

	"github.com/tomh/stocklens/internal/livequery"
	"github.com/tomh/stocklens/internal/pipeline"
	"github.com/tomh/stocklens/internal/replica"
	"github.com/tomh/stocklens/internal/selection"
	"github.com/tomh/stocklens/internal/table"
	"github.com/tomh/stocklens/internal/view"
	"github.com/tomh/stocklens/internal/writeapi"
)

func newProductsScreen(store *replica.Store, client writeapi.Client, reg *selection.Registry) *ListScreen[view.Product] {
	columns := []table.Column[view.Product]{
		{Key: "sku", Title: "SKU", Width: 10, Render: func(p view.Product) string { return p.SKU }},
		{Key: "name", Title: "Name", Flex: 3, CanHide: true,
			Render: func(p view.Product) string { return p.Name }},
		{Key: "brand", Title: "Brand", Flex: 2, CanHide: true,
			Render: func(p view.Product) string { return p.Brand }},
		{Key: "channel", Title: "Channel", Width: 9, CanHide: true,
			Render: func(p view.Product) string { return p.Channel }},
		{Key: "price", Title: "Price", Width: 9, Align: table.AlignRight,
			Render: func(p view.Product) string { return fmt.Sprintf("%.2f", p.UnitPrice) }},
		{Key: "margin", Title: "Margin", Width: 7, Align: table.AlignRight, CanHide: true,
			Render: func(p view.Product) string { return fmt.Sprintf("%.1f%%", p.Margin) }},
		{Key: "qty", Title: "Qty", Width: 5, Align: table.AlignRight,
			Render: func(p view.Product) string { return fmt.Sprintf("%d", p.QtyAvailable) }},
		{Key: "reserved", Title: "Rsv", Width: 5, Align: table.AlignRight, CanHide: true,
			Render: func(p view.Product) string { return fmt.Sprintf("%d", p.QtyReserved) }},
	}

	spec := ScreenSpec[view.Product]{
		Name:    "Products",
		Columns: columns,
		KeyOf:   view.Product.Key,
		SearchFields: []pipeline.Field[view.Product]{
			func(p view.Product) string { return p.Name },
			func(p view.Product) string { return p.Brand },
			func(p view.Product) string { return p.SKU },
		},
		Sorts: []SortOption[view.Product]{
			{Key: "name", Label: "name", Less: pipeline.ByString(func(p view.Product) string { return p.Name })},
			{Key: "margin", Label: "margin", Less: pipeline.ByNumber(func(p view.Product) float64 { return p.Margin })},
			{Key: "price", Label: "price", Less: pipeline.ByNumber(func(p view.Product) float64 { return p.UnitPrice })},
			{Key: "qty", Label: "qty", Less: pipeline.ByInt(func(p view.Product) int { return p.QtyAvailable })},
		},
		Facets: []Facet[view.Product]{
			{Name: "channel", Options: []FacetOption[view.Product]{
				{Label: "all"},
				{Label: "Primary", Predicate: func(p view.Product) bool { return p.Channel == "Primary" }},
				{Label: "Secondary", Predicate: func(p view.Product) bool { return p.Channel == "Secondary" }},
			}},
			{Name: "stock", Options: []FacetOption[view.Product]{
				{Label: "all"},
				{Label: "critical", Predicate: func(p view.Product) bool { return p.QtyAvailable == 0 }},
				{Label: "low", Predicate: func(p view.Product) bool { return p.QtyAvailable > 0 && p.QtyAvailable < 5 }},
			}},
		},
		Aggregates: []table.Aggregate[view.Product]{
			{Col: "sku", Compute: func(rows []view.Product) string { return fmt.Sprintf("%d items", len(rows)) }},
			{Col: "qty", Compute: func(rows []view.Product) string {
				sum := 0
				for _, p := range rows {
					sum += p.QtyAvailable
				}
				return fmt.Sprintf("%d", sum)
			}},
			{Col: "price", Compute: func(rows []view.Product) string {
				var total float64
				for _, p := range rows {
					total += p.UnitPrice * float64(p.QtyAvailable)
				}
				return fmt.Sprintf("%.0f", total)
			}},
		},
		NewBinding: func() *livequery.Binding[view.Product] {
			return livequery.New(store, func(ctx context.Context) ([]view.Product, error) {
				return view.LoadProducts(ctx, store)
			}, "products")
		},
		Action: func(s *ListScreen[view.Product]) selection.Action {
			return selection.Action{
				Label: "archive selected",
				Handler: func(selected []selection.Item) {
					ids := make([]string, 0, len(selected))
					for _, item := range selected {
						ids = append(ids, item.ID)
					}
					if err := client.ArchiveProducts(context.Background(), ids); err != nil {
						return
					}
					s.binding.Refresh()
				},
			}
		},
	}
	return NewListScreen(spec, reg)
}
