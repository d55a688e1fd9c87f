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

// defaultPicker receives bulk assignments until per-order picker choice gets
// its own modal.
const defaultPicker = "ali"

func newOrdersScreen(store *replica.Store, client writeapi.Client, reg *selection.Registry) *ListScreen[view.Order] {
	columns := []table.Column[view.Order]{
		{Key: "number", Title: "Order", Width: 12, Render: func(o view.Order) string { return o.Number }},
		{Key: "status", Title: "Status", Width: 10,
			Render: func(o view.Order) string { return o.Status }},
		{Key: "channel", Title: "Channel", Width: 9, CanHide: true,
			Render: func(o view.Order) string { return o.Channel }},
		{Key: "total", Title: "Total", Width: 10, Align: table.AlignRight,
			Render: func(o view.Order) string { return fmt.Sprintf("%.2f", o.Total) }},
		{Key: "items", Title: "Items", Width: 5, Align: table.AlignRight, CanHide: true,
			Render: func(o view.Order) string { return fmt.Sprintf("%d", o.ItemCount) }},
		{Key: "picker", Title: "Picker", Width: 8, CanHide: true,
			Render: func(o view.Order) string { return o.Picker }},
		{Key: "placed", Title: "Placed", Flex: 1, CanHide: true,
			Render: func(o view.Order) string { return o.PlacedAt }},
	}

	statusFacet := Facet[view.Order]{Name: "status", Options: []FacetOption[view.Order]{{Label: "all"}}}
	for _, code := range []int{view.StatusPending, view.StatusPaid, view.StatusPicking, view.StatusShipped, view.StatusDelivered} {
		code := code
		statusFacet.Options = append(statusFacet.Options, FacetOption[view.Order]{
			Label:     view.StatusLabel(code),
			Predicate: func(o view.Order) bool { return o.StatusCode == code },
		})
	}

	spec := ScreenSpec[view.Order]{
		Name:    "Orders",
		Columns: columns,
		KeyOf:   view.Order.Key,
		SearchFields: []pipeline.Field[view.Order]{
			func(o view.Order) string { return o.Number },
			func(o view.Order) string { return o.Status },
			func(o view.Order) string { return o.Picker },
		},
		Sorts: []SortOption[view.Order]{
			{Key: "placed", Label: "placed", Less: pipeline.ByDate(func(o view.Order) string { return o.PlacedAt })},
			{Key: "total", Label: "total", Less: pipeline.ByNumber(func(o view.Order) float64 { return o.Total })},
			{Key: "status", Label: "status", Less: pipeline.ByInt(func(o view.Order) int { return o.StatusCode })},
		},
		Facets: []Facet[view.Order]{
			statusFacet,
			{Name: "channel", Options: []FacetOption[view.Order]{
				{Label: "all"},
				{Label: "Primary", Predicate: func(o view.Order) bool { return o.Channel == "Primary" }},
				{Label: "Secondary", Predicate: func(o view.Order) bool { return o.Channel == "Secondary" }},
			}},
		},
		Aggregates: []table.Aggregate[view.Order]{
			{Col: "number", Compute: func(rows []view.Order) string { return fmt.Sprintf("%d orders", len(rows)) }},
			{Col: "total", Compute: func(rows []view.Order) string {
				var sum float64
				for _, o := range rows {
					sum += o.Total
				}
				return fmt.Sprintf("%.2f", sum)
			}},
			{Col: "items", Compute: func(rows []view.Order) string {
				sum := 0
				for _, o := range rows {
					sum += o.ItemCount
				}
				return fmt.Sprintf("%d", sum)
			}},
		},
		NewBinding: func() *livequery.Binding[view.Order] {
			return livequery.New(store, func(ctx context.Context) ([]view.Order, error) {
				return view.LoadOrders(ctx, store)
			}, "orders")
		},
		Action: func(s *ListScreen[view.Order]) selection.Action {
			return selection.Action{
				Label: "assign picker " + defaultPicker,
				Handler: func(selected []selection.Item) {
					ids := make([]string, 0, len(selected))
					for _, item := range selected {
						ids = append(ids, item.ID)
					}
					if err := client.AssignPicker(context.Background(), ids, defaultPicker); err != nil {
						return
					}
					s.binding.Refresh()
				},
			}
		},
	}
	return NewListScreen(spec, reg)
}
