package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomh/stocklens/internal/livequery"
	"github.com/tomh/stocklens/internal/pipeline"
	"github.com/tomh/stocklens/internal/replica"
	"github.com/tomh/stocklens/internal/selection"
	"github.com/tomh/stocklens/internal/table"
	"github.com/tomh/stocklens/internal/view"
	"github.com/tomh/stocklens/internal/writeapi"
)

const priorityTag = "priority"

func newCustomersScreen(store *replica.Store, client writeapi.Client, reg *selection.Registry) *ListScreen[view.Customer] {
	columns := []table.Column[view.Customer]{
		{Key: "name", Title: "Customer", Flex: 2, Render: func(c view.Customer) string { return c.Name }},
		{Key: "email", Title: "Email", Flex: 2, CanHide: true,
			Render: func(c view.Customer) string { return c.Email }},
		{Key: "channel", Title: "Channel", Width: 9, CanHide: true,
			Render: func(c view.Customer) string { return c.Channel }},
		{Key: "orders", Title: "Orders", Width: 6, Align: table.AlignRight,
			Render: func(c view.Customer) string { return fmt.Sprintf("%d", c.OrderCount) }},
		{Key: "lifetime", Title: "Lifetime", Width: 10, Align: table.AlignRight,
			Render: func(c view.Customer) string { return fmt.Sprintf("%.2f", c.LifetimeValue) }},
		{Key: "last", Title: "Last order", Width: 10, CanHide: true,
			Render: func(c view.Customer) string { return c.LastOrderAt }},
		{Key: "tags", Title: "Tags", Flex: 1, CanHide: true,
			Render: func(c view.Customer) string { return strings.Join(c.Tags, ",") }},
	}

	spec := ScreenSpec[view.Customer]{
		Name:    "Customers",
		Columns: columns,
		KeyOf:   view.Customer.Key,
		SearchFields: []pipeline.Field[view.Customer]{
			func(c view.Customer) string { return c.Name },
			func(c view.Customer) string { return c.Email },
			func(c view.Customer) string { return strings.Join(c.Tags, ",") },
		},
		Sorts: []SortOption[view.Customer]{
			{Key: "name", Label: "name", Less: pipeline.ByString(func(c view.Customer) string { return c.Name })},
			{Key: "lifetime", Label: "lifetime", Less: pipeline.ByNumber(func(c view.Customer) float64 { return c.LifetimeValue })},
			{Key: "orders", Label: "orders", Less: pipeline.ByInt(func(c view.Customer) int { return c.OrderCount })},
			{Key: "last", Label: "last order", Less: pipeline.ByDate(func(c view.Customer) string { return c.LastOrderAt })},
		},
		Facets: []Facet[view.Customer]{
			{Name: "channel", Options: []FacetOption[view.Customer]{
				{Label: "all"},
				{Label: "Primary", Predicate: func(c view.Customer) bool { return c.Channel == "Primary" }},
				{Label: "Secondary", Predicate: func(c view.Customer) bool { return c.Channel == "Secondary" }},
			}},
			{Name: "activity", Options: []FacetOption[view.Customer]{
				{Label: "all"},
				{Label: "active", Predicate: func(c view.Customer) bool { return c.OrderCount > 0 }},
				{Label: "dormant", Predicate: func(c view.Customer) bool { return c.OrderCount == 0 }},
			}},
		},
		Aggregates: []table.Aggregate[view.Customer]{
			{Col: "name", Compute: func(rows []view.Customer) string { return fmt.Sprintf("%d customers", len(rows)) }},
			{Col: "lifetime", Compute: func(rows []view.Customer) string {
				var sum float64
				for _, c := range rows {
					sum += c.LifetimeValue
				}
				return fmt.Sprintf("%.2f", sum)
			}},
		},
		NewBinding: func() *livequery.Binding[view.Customer] {
			return livequery.New(store, func(ctx context.Context) ([]view.Customer, error) {
				return view.LoadCustomers(ctx, store)
			}, "customers")
		},
		Action: func(s *ListScreen[view.Customer]) selection.Action {
			return selection.Action{
				Label: "tag " + priorityTag,
				Handler: func(selected []selection.Item) {
					ids := make([]string, 0, len(selected))
					for _, item := range selected {
						ids = append(ids, item.ID)
					}
					if err := client.TagCustomers(context.Background(), ids, priorityTag); err != nil {
						return
					}
					s.binding.Refresh()
				},
			}
		},
	}
	return NewListScreen(spec, reg)
}
