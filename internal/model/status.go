package model

// validNext is the single authority on order-status transitions. Transitions
// are one-way: once cancelled or completed-then-cancelled nothing moves again.
// Cancellation is reachable from every live state so staff can always abort.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderProcessing: true, OrderCancelled: true},
	OrderProcessing: {OrderCompleted: true, OrderCancelled: true},
	OrderCompleted:  {OrderCancelled: true},
	OrderCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ValidOrderStatus reports whether the string names a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}

// Finalized reports whether the approval machine has already run for an
// order. Pending is the only state in which approve/reject may act.
func (s ApprovalStatus) Finalized() bool {
	return s != ApprovalPending
}
