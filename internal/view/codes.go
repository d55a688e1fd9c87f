// Package view turns raw replicated rows into the normalized records the list
// engine consumes. Mappers are pure: nulls become zero values, coded columns
// decode through one shared table, and mapping the same raw row twice yields
// structurally equal output.
package view

// Remote status_code values for orders. The decode table below is the single
// source for their labels; every screen that shows an order status goes
// through StatusLabel.
const (
	StatusPending   = 0
	StatusPaid      = 1
	StatusPicking   = 2
	StatusShipped   = 3
	StatusDelivered = 4
)

var statusLabels = map[int]string{
	StatusPending:   "Pending",
	StatusPaid:      "Paid",
	StatusPicking:   "Picking",
	StatusShipped:   "Shipped",
	StatusDelivered: "Delivered",
}

// StatusLabel decodes an order status code. Unknown codes decode to "Unknown"
// rather than erroring; the replica may run ahead of this build.
func StatusLabel(code int) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return "Unknown"
}

// Remote channel_code values, shared by products, orders and customers.
const (
	ChannelPrimary   = 1
	ChannelSecondary = 2
)

// ChannelLabel decodes a sales channel code.
func ChannelLabel(code int) string {
	switch code {
	case ChannelPrimary:
		return "Primary"
	case ChannelSecondary:
		return "Secondary"
	default:
		return "Unknown"
	}
}
