package models

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// allowedNext is the fulfillment transition table. The happy path is linear;
// cancellation is reachable from every state before the order leaves the
// restaurant.
var allowedNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:        {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:      {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:      {StatusReady: true, StatusCancelled: true},
	StatusReady:          {StatusOutForDelivery: true},
	StatusOutForDelivery: {StatusDelivered: true},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	_, ok := allowedNext[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s
func (s OrderStatus) IsTerminal() bool {
	return len(allowedNext[s]) == 0
}

// CanTransitionTo reports whether the transition s -> next is legal
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return allowedNext[s][next]
}

// customerCancellable lists the states in which the customer may still cancel.
var customerCancellable = map[OrderStatus]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusPreparing: true,
}

// CustomerCancellable reports whether a customer may cancel an order in state s
func (s OrderStatus) CustomerCancellable() bool {
	return customerCancellable[s]
}
