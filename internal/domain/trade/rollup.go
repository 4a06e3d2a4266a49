package trade

// Rollup derives an order status from the statuses of its producer orders.
//
// Precedence:
//   - all DELIVERED -> DELIVERED
//   - all CANCELLED -> CANCELLED
//   - any SHIPPED, DELIVERED or CANCELLED -> PREPARING
//   - any SHIPPED -> SHIPPED (already covered by the previous rule)
//   - otherwise -> PENDING
//
// A mixed order where some producers shipped and others are still pending is
// reported as PREPARING. The second result is false for an empty input, which
// means there is nothing to derive from.
func Rollup(statuses []ProducerOrderStatus) (OrderStatus, bool) {
	if len(statuses) == 0 {
		return "", false
	}

	allDelivered, allCancelled := true, true
	anyAdvanced, anyShipped := false, false
	for _, s := range statuses {
		if s != ProducerOrderStatusDelivered {
			allDelivered = false
		}
		if s != ProducerOrderStatusCancelled {
			allCancelled = false
		}
		switch s {
		case ProducerOrderStatusShipped:
			anyShipped = true
			anyAdvanced = true
		case ProducerOrderStatusDelivered, ProducerOrderStatusCancelled:
			anyAdvanced = true
		}
	}

	switch {
	case allDelivered:
		return OrderStatusDelivered, true
	case allCancelled:
		return OrderStatusCancelled, true
	case anyAdvanced:
		return OrderStatusPreparing, true
	case anyShipped:
		return OrderStatusShipped, true
	default:
		return OrderStatusPending, true
	}
}
